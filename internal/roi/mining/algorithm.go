package mining

import (
	"fmt"
	"strings"
)

// Algorithm selects the region-growing policy.
type Algorithm int

const (
	// Disjoint grows arbitrary connected blobs through the densest neighbour.
	Disjoint Algorithm = iota
	// Uniform grows axis-aligned boxes whose mean density stays above the minimum.
	Uniform
	// Slope follows neighbours of non-increasing density away from the seed.
	Slope
	// Expansive is Disjoint with a fallback pool of skipped neighbours.
	Expansive
	// Threshold collects every dense cell into a single region.
	Threshold
	// Hybrid refines each Uniform region with Slope.
	Hybrid
)

var algorithmNames = [...]string{
	Disjoint:  "disjoint",
	Uniform:   "uniform",
	Slope:     "slope",
	Expansive: "expansive",
	Threshold: "threshold",
	Hybrid:    "hybrid",
}

// Algorithms returns every policy in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{Disjoint, Uniform, Slope, Expansive, Threshold, Hybrid}
}

// Valid reports whether a names a known policy.
func (a Algorithm) Valid() bool { return a >= 0 && int(a) < len(algorithmNames) }

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a case-insensitive name such as "slope" to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range algorithmNames {
		if n == name {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
