package monitoring

import (
	"log"
	"math"
)

// Logf is the package-level diagnostic logger used by the mining packages. It
// defaults to log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// ProgressLogger returns a progress callback that logs through Logf each time
// the reported fraction crosses another multiple of step. A step outside
// (0, 1] logs only completion.
func ProgressLogger(prefix string, step float64) func(fraction float64) {
	if step <= 0 || step > 1 {
		step = 1
	}
	next := step
	return func(fraction float64) {
		if fraction < next && fraction < 1 {
			return
		}
		Logf("%s %.0f%% complete", prefix, 100*math.Min(fraction, 1))
		for next <= fraction {
			next += step
		}
	}
}
