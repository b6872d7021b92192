// Package config loads relief.json, the shared defaults for the relief
// command line tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/banshee-data/relief/internal/applicator"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/sampler"
)

// DefaultConfigPath is where the tools look for a config file when -config
// is not given.
const DefaultConfigPath = "relief.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config holds optional overrides. A nil field means "use the default"; the
// Get* methods resolve it.
type Config struct {
	// Applicator
	PlaneSize        *float64 `json:"plane_size,omitempty"`
	Density          *int     `json:"density,omitempty"`
	HeightMultiplier *float64 `json:"height_multiplier,omitempty"`
	HighRes          *bool    `json:"high_res,omitempty"`
	Axis             *string  `json:"axis,omitempty"`

	// Sampler
	Invert       *bool `json:"invert,omitempty"`
	ResizeWidth  *int  `json:"resize_width,omitempty"`
	ResizeHeight *int  `json:"resize_height,omitempty"`

	// Run history; empty disables it.
	DBPath *string `json:"db_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Defaults returns a Config with every field set to its default.
func Defaults() *Config {
	p := applicator.DefaultParams()
	return &Config{
		PlaneSize:        ptrFloat64(p.PlaneSize),
		Density:          ptrInt(p.Density),
		HeightMultiplier: ptrFloat64(p.HeightMultiplier),
		HighRes:          ptrBool(p.HighRes),
		Axis:             ptrString(p.Axis.String()),
		Invert:           ptrBool(false),
		ResizeWidth:      ptrInt(0),
		ResizeHeight:     ptrInt(0),
		DBPath:           ptrString(""),
	}
}

// LoadConfig reads a Config from a JSON file on fsys. The file must have a
// .json extension and be at most 1MB. Omitted fields stay nil.
func LoadConfig(fsys fsutil.FileSystem, path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOptional loads path if it exists. A missing file at the default path
// yields an empty Config; any other failure is returned.
func LoadOptional(fsys fsutil.FileSystem, path string) (*Config, error) {
	if path == "" {
		return Empty(), nil
	}
	if _, err := fsys.Stat(path); errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
		return Empty(), nil
	}
	return LoadConfig(fsys, path)
}

// Validate checks the fields that are set.
func (c *Config) Validate() error {
	if c.PlaneSize != nil && *c.PlaneSize <= 0 {
		return fmt.Errorf("plane_size must be positive, got %g", *c.PlaneSize)
	}
	if c.Density != nil && *c.Density < 1 {
		return fmt.Errorf("density must be at least 1, got %d", *c.Density)
	}
	if c.Axis != nil {
		if _, err := mesh.ParseAxis(*c.Axis); err != nil {
			return fmt.Errorf("axis: %w", err)
		}
	}
	if c.ResizeWidth != nil && *c.ResizeWidth < 0 {
		return fmt.Errorf("resize_width must be non-negative, got %d", *c.ResizeWidth)
	}
	if c.ResizeHeight != nil && *c.ResizeHeight < 0 {
		return fmt.Errorf("resize_height must be non-negative, got %d", *c.ResizeHeight)
	}
	return nil
}

// GetPlaneSize returns the plane_size value or the default.
func (c *Config) GetPlaneSize() float64 {
	if c.PlaneSize == nil {
		return applicator.DefaultParams().PlaneSize
	}
	return *c.PlaneSize
}

// GetDensity returns the density value or the default.
func (c *Config) GetDensity() int {
	if c.Density == nil {
		return applicator.DefaultParams().Density
	}
	return *c.Density
}

// GetHeightMultiplier returns the height_multiplier value or the default.
func (c *Config) GetHeightMultiplier() float64 {
	if c.HeightMultiplier == nil {
		return applicator.DefaultParams().HeightMultiplier
	}
	return *c.HeightMultiplier
}

// GetHighRes returns the high_res value or the default.
func (c *Config) GetHighRes() bool {
	if c.HighRes == nil {
		return false
	}
	return *c.HighRes
}

// GetAxis returns the displacement axis, falling back to Y.
func (c *Config) GetAxis() mesh.Axis {
	if c.Axis == nil {
		return mesh.DefaultAxis
	}
	a, err := mesh.ParseAxis(*c.Axis)
	if err != nil {
		return mesh.DefaultAxis
	}
	return a
}

// GetInvert returns the invert value or the default.
func (c *Config) GetInvert() bool {
	if c.Invert == nil {
		return false
	}
	return *c.Invert
}

// GetResizeWidth returns the resize_width value; 0 keeps the image width.
func (c *Config) GetResizeWidth() int {
	if c.ResizeWidth == nil {
		return 0
	}
	return *c.ResizeWidth
}

// GetResizeHeight returns the resize_height value; 0 keeps the image height.
func (c *Config) GetResizeHeight() int {
	if c.ResizeHeight == nil {
		return 0
	}
	return *c.ResizeHeight
}

// GetDBPath returns the run history database path, or "" when disabled.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// ApplyParams resolves the applicator parameters.
func (c *Config) ApplyParams() applicator.Params {
	return applicator.Params{
		PlaneSize:        c.GetPlaneSize(),
		Density:          c.GetDensity(),
		HeightMultiplier: c.GetHeightMultiplier(),
		HighRes:          c.GetHighRes(),
		Axis:             c.GetAxis(),
	}
}

// SamplerOptions resolves the sampler options.
func (c *Config) SamplerOptions() sampler.Options {
	return sampler.Options{
		Width:  c.GetResizeWidth(),
		Height: c.GetResizeHeight(),
		Invert: c.GetInvert(),
	}
}
