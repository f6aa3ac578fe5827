package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// SortConfiguration holds everything a single pixelsort run needs.
// Positional CLI values are never read from a settings file.
type SortConfiguration struct {
	ImagePath string `toml:"-"`
	Threshold int    `toml:"-"`
	Angle     int    `toml:"-"`
	Mode      Mode   `toml:"-"`
	Bands     int    `toml:"-"`

	Output     string `toml:"output"`
	MaskOutput string `toml:"mask_output"`
	MaxWorkers int    `toml:"max_workers"`
	Key        string `toml:"key"`
	Seed       uint64 `toml:"seed"`
	Seeded     bool   `toml:"-"`
	Quality    int    `toml:"jpeg_quality"`
	Crop       bool   `toml:"crop"`
	Preview    bool   `toml:"preview"`
	LogLevel   string `toml:"log_level"`
}

// DefaultSortConfiguration returns the defaults used when no flag or file overrides them
func DefaultSortConfiguration() SortConfiguration {
	return SortConfiguration{
		Mode:    ModeSort,
		Bands:   1,
		Key:     KeyWeighted,
		Quality: 95,
	}
}

// LoadSettingsFile overlays values from a TOML file onto cfg
func LoadSettingsFile(path string, cfg *SortConfiguration) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in settings file %s: %s", path, strings.Join(keys, ", "))
	}

	if md.IsDefined("seed") {
		cfg.Seeded = true
	}
	return nil
}

// Validate rejects configurations that must not start any work
func (c *SortConfiguration) Validate() error {
	if c.ImagePath == "" {
		return fmt.Errorf("image path is required")
	}
	if c.Threshold < 0 {
		return fmt.Errorf("intensity must be non-negative, got %d", c.Threshold)
	}
	if c.Bands < 1 {
		return fmt.Errorf("thread count must be at least 1, got %d", c.Bands)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max workers must be non-negative, got %d", c.MaxWorkers)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("jpeg quality must be within [1,100], got %d", c.Quality)
	}
	if _, err := ParseKey(c.Key); err != nil {
		return err
	}
	return nil
}

// OutputPath returns the configured output or <name>_sorted.png next to the input
func (c *SortConfiguration) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	ext := filepath.Ext(c.ImagePath)
	base := strings.TrimSuffix(c.ImagePath, ext)
	return base + "_sorted.png"
}

// ProcessingResult describes a completed run
type ProcessingResult struct {
	Output      *Raster
	OutputPath  string
	Mode        Mode
	Bands       int
	Runs        int
	SortedPixel int
	Timings     map[string]time.Duration
	Total       time.Duration
}
