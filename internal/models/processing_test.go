package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfiguration() SortConfiguration {
	cfg := DefaultSortConfiguration()
	cfg.ImagePath = "photos/cat.jpg"
	cfg.Threshold = 50
	return cfg
}

func TestOutputPath(t *testing.T) {
	cfg := validConfiguration()
	assert.Equal(t, "photos/cat_sorted.png", cfg.OutputPath())

	cfg.Output = "out.bmp"
	assert.Equal(t, "out.bmp", cfg.OutputPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SortConfiguration)
	}{
		{"no image", func(c *SortConfiguration) { c.ImagePath = "" }},
		{"negative intensity", func(c *SortConfiguration) { c.Threshold = -1 }},
		{"zero threads", func(c *SortConfiguration) { c.Bands = 0 }},
		{"negative workers", func(c *SortConfiguration) { c.MaxWorkers = -2 }},
		{"quality", func(c *SortConfiguration) { c.Quality = 0 }},
		{"key", func(c *SortConfiguration) { c.Key = "hue" }},
	}

	cfg := validConfiguration()
	require.NoError(t, cfg.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfiguration()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output = "result.png"
max_workers = 3
key = "lexicographic"
crop = true
`), 0o644))

	cfg := validConfiguration()
	require.NoError(t, LoadSettingsFile(path, &cfg))

	assert.Equal(t, "result.png", cfg.Output)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, KeyLexicographic, cfg.Key)
	assert.True(t, cfg.Crop)
	assert.False(t, cfg.Seeded)
	assert.Equal(t, 95, cfg.Quality, "unset keys keep defaults")
}

func TestLoadSettingsFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("threads = 4\n"), 0o644))

	cfg := validConfiguration()
	err := LoadSettingsFile(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
}
