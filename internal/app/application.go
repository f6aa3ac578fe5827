package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"pixelsorter/internal/debug/timing"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
	"pixelsorter/internal/preview"
	"pixelsorter/internal/services"
	"pixelsorter/internal/shutdown"
)

const (
	AppName    = "pixelsorter"
	AppVersion = "1.0.0"
)

// Previewer displays a finished image and blocks until the viewer is closed
type Previewer interface {
	Show(title string, raster *models.Raster)
	Shutdown()
}

type windowPreviewer struct {
	window *preview.Window
}

func (w windowPreviewer) Show(title string, raster *models.Raster) {
	w.window.Show(title, services.RasterToImage(raster))
}

func (w windowPreviewer) Shutdown() {
	w.window.Shutdown()
}

// Application wires the services together for one command line run
type Application struct {
	logger            logger.Logger
	timing            *timing.Tracker
	imageService      *services.ImageService
	processingService *services.ProcessingService
	previewer         Previewer
	shutdown          *shutdown.Manager
}

func NewApplication(ctx context.Context, log logger.Logger) *Application {
	if log == nil {
		log = logger.NewNop()
	}
	tracker := timing.NewTracker(log)

	return newApplication(ctx, log, tracker,
		services.NewProcessingService(log, tracker),
		windowPreviewer{window: preview.NewWindow(log)},
	)
}

func newApplication(ctx context.Context, log logger.Logger, tracker *timing.Tracker, ps *services.ProcessingService, previewer Previewer) *Application {
	manager := shutdown.NewManager(ctx, log)
	manager.Register("preview", previewer)

	return &Application{
		logger:            log,
		timing:            tracker,
		imageService:      services.NewImageService(log, tracker),
		processingService: ps,
		previewer:         previewer,
		shutdown:          manager,
	}
}

// Run loads the input, pixelsorts it, saves the result and optionally the
// mask, then shows the preview when requested. No output file is written
// when sorting fails.
func (a *Application) Run(cfg *models.SortConfiguration) (*models.ProcessingResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a.shutdown.Listen()
	defer a.shutdown.Shutdown()
	ctx := a.shutdown.Context()

	a.timing.Reset("")
	start := time.Now()
	a.logger.Info("Application", "run started", map[string]interface{}{
		"version":   AppVersion,
		"image":     cfg.ImagePath,
		"intensity": cfg.Threshold,
		"rotation":  cfg.Angle,
		"mode":      cfg.Mode.String(),
		"threads":   cfg.Bands,
	})

	input, err := a.imageService.LoadImage(ctx, cfg.ImagePath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Application", "input decoded", map[string]interface{}{
		"width":  input.Width(),
		"height": input.Height(),
		"format": input.Format,
	})
	if input.HadAlpha {
		a.logger.Warning("Application", "alpha channel dropped", map[string]interface{}{
			"path": cfg.ImagePath,
		})
	}

	output, report, err := a.processingService.ProcessImage(ctx, input.Raster, cfg)
	if err != nil {
		return nil, fmt.Errorf("pixelsort failed: %w", err)
	}

	outputPath := cfg.OutputPath()
	if err := a.imageService.SaveImage(ctx, outputPath, output, cfg.Quality); err != nil {
		return nil, err
	}

	if cfg.MaskOutput != "" {
		mask := a.processingService.FilterMask(input.Raster, cfg.Threshold)
		if err := a.imageService.SaveImage(ctx, cfg.MaskOutput, mask, cfg.Quality); err != nil {
			// a run either produces all of its files or none
			if rmErr := os.Remove(outputPath); rmErr != nil {
				a.logger.Error("Application", rmErr, map[string]interface{}{"output": outputPath})
			}
			return nil, err
		}
	}

	result := &models.ProcessingResult{
		Output:      output,
		OutputPath:  outputPath,
		Mode:        cfg.Mode,
		Bands:       len(report.Bands),
		Runs:        report.Runs,
		SortedPixel: report.SortedPixels,
		Timings:     a.timing.Summary(),
		Total:       time.Since(start),
	}

	fields := map[string]interface{}{
		"output":  outputPath,
		"runs":    result.Runs,
		"pixels":  result.SortedPixel,
		"elapsed": result.Total.String(),
	}
	for op, d := range result.Timings {
		fields[op] = d.String()
	}
	if bands := a.timing.Stats("band"); bands.Count > 0 {
		fields["band_avg"] = bands.Average().String()
		fields["band_max"] = bands.Max.String()
	}
	a.logger.Info("Application", "run completed", fields)

	if cfg.Preview {
		a.previewer.Show(preview.Title(outputPath, output.Width, output.Height), output)
	}

	return result, nil
}
