package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
)

func parse(t *testing.T, argv ...string) (*models.SortConfiguration, error) {
	t.Helper()
	f := &flags{}
	cmd := &cobra.Command{}
	registerFlags(cmd, f)
	require.NoError(t, cmd.ParseFlags(argv))
	return buildConfiguration(cmd, cmd.Flags().Args(), f)
}

func TestBuildConfigurationPositional(t *testing.T) {
	cfg, err := parse(t, "in.jpg", "40", "90", "coloring", "4")
	require.NoError(t, err)

	assert.Equal(t, "in.jpg", cfg.ImagePath)
	assert.Equal(t, 40, cfg.Threshold)
	assert.Equal(t, 90, cfg.Angle)
	assert.Equal(t, models.ModeColor, cfg.Mode)
	assert.Equal(t, 4, cfg.Bands)
	assert.Equal(t, "in_sorted.png", cfg.OutputPath())
	assert.False(t, cfg.Seeded)
}

func TestBuildConfigurationFlags(t *testing.T) {
	cfg, err := parse(t, "-o", "out.jpg", "--seed", "7", "--workers", "2", "--crop", "--key", "lexicographic",
		"in.png", "10", "0", "pixelsorting", "1")
	require.NoError(t, err)

	assert.Equal(t, "out.jpg", cfg.OutputPath())
	assert.True(t, cfg.Seeded)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.True(t, cfg.Crop)
	assert.Equal(t, models.KeyLexicographic, cfg.Key)
}

func TestBuildConfigurationNegativeRotation(t *testing.T) {
	cfg, err := parse(t, "--", "in.png", "10", "-90", "sort", "1")
	require.NoError(t, err)
	assert.Equal(t, -90, cfg.Angle)
}

func TestBuildConfigurationSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("output = \"from-file.png\"\njpeg_quality = 80\nseed = 3\n"), 0o644))

	cfg, err := parse(t, "--config", path, "--quality", "60", "in.png", "10", "0", "sort", "1")
	require.NoError(t, err)

	assert.Equal(t, "from-file.png", cfg.Output)
	assert.Equal(t, 60, cfg.Quality, "flags override the settings file")
	assert.True(t, cfg.Seeded)
	assert.Equal(t, uint64(3), cfg.Seed)
}

func TestBuildConfigurationRejectsBadArguments(t *testing.T) {
	cases := map[string][]string{
		"intensity": {"in.png", "abc", "0", "sort", "1"},
		"rotation":  {"in.png", "10", "1.5", "sort", "1"},
		"mode":      {"in.png", "10", "0", "blur", "1"},
		"threads":   {"in.png", "10", "0", "sort", "x"},
		"zero":      {"in.png", "10", "0", "sort", "0"},
		"negative":  {"--", "in.png", "-1", "0", "sort", "1"},
		"key":       {"--key", "hue", "in.png", "10", "0", "sort", "1"},
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, argv...)
			assert.Error(t, err)
		})
	}
}

func TestRootCommandRequiresFiveArguments(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"in.png", "10"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestLogLevel(t *testing.T) {
	level, err := logLevel(&models.SortConfiguration{LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logger.DebugLevel, level)

	_, err = logLevel(&models.SortConfiguration{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestHelpListsReadableFormats(t *testing.T) {
	long := newRootCommand().Long
	for _, format := range []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"} {
		assert.Contains(t, long, format)
	}
}
