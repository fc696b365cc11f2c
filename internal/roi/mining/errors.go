package mining

import (
	"errors"
	"fmt"
)

var (
	// ErrMinDensity indicates a minimum density below one.
	ErrMinDensity = errors.New("mining: minimum density must be at least 1")
	// ErrUnknownAlgorithm indicates an algorithm name or value with no policy.
	ErrUnknownAlgorithm = errors.New("mining: unknown algorithm")
	// ErrNilSpace indicates Run was called without a mining space.
	ErrNilSpace = errors.New("mining: nil mining space")
	// ErrUnknownRegion indicates a pattern referencing a region id that is
	// not in the supplied set.
	ErrUnknownRegion = errors.New("mining: unknown region id")
)

// errHookUnsupported reports that a policy has no expansion hooks because
// it overrides the whole run.
func errHookUnsupported(a Algorithm, hook string) error {
	return fmt.Errorf("mining: %s is not used by %s: %w", hook, a, errors.ErrUnsupported)
}
