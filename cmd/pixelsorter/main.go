package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pixelsorter/internal/app"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
	"pixelsorter/internal/services"
)

type flags struct {
	output     string
	mask       string
	key        string
	configPath string
	logLevel   string
	show       bool
	crop       bool
	seed       uint64
	workers    int
	quality    int
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "pixelsorter IMAGE INTENSITY ROTATION MODE THREADS",
		Short: "Sort or recolor runs of mid-intensity pixels",
		Long: `pixelsorter rotates IMAGE by ROTATION degrees, splits it into THREADS
horizontal bands and, in every row, sorts (MODE pixelsorting) or recolors
(MODE coloring) each run of pixels whose r+g+b lies in
[INTENSITY, 765-INTENSITY). The image is rotated back before saving.

Put -- before the arguments when ROTATION is negative:
  pixelsorter --show -- photo.jpg 60 -45 pixelsorting 8

Readable formats: ` + strings.Join(services.GetSupportedFormats(), ", ") + `.
The output format follows the file extension (png, jpeg, bmp or tiff).`,
		Version:       app.AppVersion,
		Args:          cobra.ExactArgs(5),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfiguration(cmd, args, f)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			level, err := logLevel(cfg)
			if err != nil {
				return err
			}

			application := app.NewApplication(cmd.Context(), logger.NewConsoleLogger(level))
			result, err := application.Run(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s written in %s\n", result.OutputPath, result.Total.Round(time.Millisecond))
			return nil
		},
	}

	registerFlags(cmd, f)
	return cmd
}

func registerFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default <name>_sorted.png)")
	cmd.Flags().StringVar(&f.mask, "mask", "", "also write the black and white filter mask to this file")
	cmd.Flags().BoolVar(&f.show, "show", false, "show the result in a window")
	cmd.Flags().BoolVar(&f.crop, "crop", false, "crop a rotated result back to the input size")
	cmd.Flags().StringVar(&f.key, "key", models.KeyWeighted, "sort key: weighted or lexicographic")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for reproducible coloring")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "maximum bands processed at once (0 = all)")
	cmd.Flags().IntVar(&f.quality, "quality", 95, "jpeg quality when the output is a jpeg")
	cmd.Flags().StringVar(&f.configPath, "config", "", "TOML settings file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
}

// buildConfiguration layers defaults, the settings file, positional
// arguments and explicitly set flags, in that order
func buildConfiguration(cmd *cobra.Command, args []string, f *flags) (*models.SortConfiguration, error) {
	cfg := models.DefaultSortConfiguration()

	if f.configPath != "" {
		if err := models.LoadSettingsFile(f.configPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyPositional(&cfg, args); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("mask") {
		cfg.MaskOutput = f.mask
	}
	if changed("show") {
		cfg.Preview = f.show
	}
	if changed("crop") {
		cfg.Crop = f.crop
	}
	if changed("key") {
		cfg.Key = f.key
	}
	if changed("seed") {
		cfg.Seed = f.seed
		cfg.Seeded = true
	}
	if changed("workers") {
		cfg.MaxWorkers = f.workers
	}
	if changed("quality") {
		cfg.Quality = f.quality
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyPositional(cfg *models.SortConfiguration, args []string) error {
	cfg.ImagePath = args[0]

	intensity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("INTENSITY must be an integer, got %q", args[1])
	}
	angle, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("ROTATION must be an integer, got %q", args[2])
	}
	mode, err := models.ParseMode(args[3])
	if err != nil {
		return err
	}
	threads, err := strconv.Atoi(args[4])
	if err != nil {
		return fmt.Errorf("THREADS must be an integer, got %q", args[4])
	}

	cfg.Threshold = intensity
	cfg.Angle = angle
	cfg.Mode = mode
	cfg.Bands = threads
	return nil
}

// logLevel prefers the configured level and falls back to the environment
func logLevel(cfg *models.SortConfiguration) (logger.LogLevel, error) {
	if cfg.LogLevel == "" {
		return logger.LevelFromEnv(), nil
	}
	return logger.ParseLevel(cfg.LogLevel)
}
