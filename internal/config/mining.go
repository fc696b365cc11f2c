package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/roimine/internal/roi/mining"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// DefaultConfigPath is the path to the canonical mining defaults file.
const DefaultConfigPath = "config/roi.defaults.json"

// Fallbacks used by the Get* accessors when a field is absent.
const (
	DefaultAlgorithm    = mining.Uniform
	DefaultMinDensity   = 5
	DefaultRadius       = 0
	DefaultCellSize     = 100.0
	DefaultProgressStep = 0.1
)

// MiningConfig is the JSON configuration for a mining run. Every field is
// optional; absent fields fall back to the defaults above.
type MiningConfig struct {
	Algorithm         *string  `json:"algorithm,omitempty"`
	MinDensity        *int     `json:"min_density,omitempty"`
	Radius            *int     `json:"radius,omitempty"`
	CellsPerDimension []int    `json:"cells_per_dimension,omitempty"`
	CellSize          *float64 `json:"cell_size,omitempty"`
	ProgressStep      *float64 `json:"progress_step,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyMiningConfig returns a MiningConfig with all fields unset.
func EmptyMiningConfig() *MiningConfig {
	return &MiningConfig{}
}

// DefaultMiningConfig returns a MiningConfig with every field set to its
// default value.
func DefaultMiningConfig() *MiningConfig {
	return &MiningConfig{
		Algorithm:    ptrString(DefaultAlgorithm.String()),
		MinDensity:   ptrInt(DefaultMinDensity),
		Radius:       ptrInt(DefaultRadius),
		CellSize:     ptrFloat64(DefaultCellSize),
		ProgressStep: ptrFloat64(DefaultProgressStep),
	}
}

// LoadMiningConfig loads a MiningConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
// Fields omitted from the file keep their defaults, so partial configs are
// safe.
func LoadMiningConfig(path string) (*MiningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMiningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics if the file
// cannot be loaded and is intended for test setup.
func MustLoadDefaultConfig() *MiningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/roi/mining/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadMiningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set.
func (c *MiningConfig) Validate() error {
	if c.Algorithm != nil {
		if _, err := mining.ParseAlgorithm(*c.Algorithm); err != nil {
			return err
		}
	}
	if c.MinDensity != nil && *c.MinDensity < 1 {
		return fmt.Errorf("min_density must be at least 1, got %d", *c.MinDensity)
	}
	if c.Radius != nil && *c.Radius < 0 {
		return fmt.Errorf("radius must be non-negative, got %d", *c.Radius)
	}
	for i, n := range c.CellsPerDimension {
		if n < 1 {
			return fmt.Errorf("cells_per_dimension[%d] must be at least 1, got %d", i, n)
		}
	}
	if c.CellSize != nil && *c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %g", *c.CellSize)
	}
	if c.ProgressStep != nil && (*c.ProgressStep <= 0 || *c.ProgressStep > 1) {
		return fmt.Errorf("progress_step must be in (0, 1], got %g", *c.ProgressStep)
	}
	return nil
}

// GetAlgorithm returns the configured policy or the default. Validate
// rejects unknown names, so a parse failure here also yields the default.
func (c *MiningConfig) GetAlgorithm() mining.Algorithm {
	if c.Algorithm == nil {
		return DefaultAlgorithm
	}
	a, err := mining.ParseAlgorithm(*c.Algorithm)
	if err != nil {
		return DefaultAlgorithm
	}
	return a
}

// GetMinDensity returns the min_density value or the default.
func (c *MiningConfig) GetMinDensity() int {
	if c.MinDensity == nil {
		return DefaultMinDensity
	}
	return *c.MinDensity
}

// GetRadius returns the radius value or the default.
func (c *MiningConfig) GetRadius() int {
	if c.Radius == nil {
		return DefaultRadius
	}
	return *c.Radius
}

// GetCellSize returns the cell_size value or the default.
func (c *MiningConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return DefaultCellSize
	}
	return *c.CellSize
}

// GetProgressStep returns the progress_step value or the default.
func (c *MiningConfig) GetProgressStep() float64 {
	if c.ProgressStep == nil {
		return DefaultProgressStep
	}
	return *c.ProgressStep
}

// BuildConfig converts the grid fields into a space.BuildConfig. Explicit
// cells_per_dimension win over cell_size only when their length matches the
// trace dimensionality; space.BuildConfig.Cells applies that rule.
func (c *MiningConfig) BuildConfig() space.BuildConfig {
	return space.BuildConfig{
		CellsPerDimension: append([]int(nil), c.CellsPerDimension...),
		CellSize:          c.GetCellSize(),
		Radius:            c.GetRadius(),
	}
}
