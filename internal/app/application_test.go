package app

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelsorter/internal/debug/timing"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
	"pixelsorter/internal/services"
)

type recordingPreviewer struct {
	titles   []string
	shutdown int
}

func (p *recordingPreviewer) Show(title string, raster *models.Raster) {
	p.titles = append(p.titles, title)
}

func (p *recordingPreviewer) Shutdown() {
	p.shutdown++
}

func newTestApplication(t *testing.T) (*Application, *recordingPreviewer) {
	t.Helper()
	log := logger.NewNop()
	tracker := timing.NewTracker(log)
	previewer := &recordingPreviewer{}
	return newApplication(context.Background(), log, tracker, services.NewProcessingService(log, tracker), previewer), previewer
}

// writeGradient writes a 4x2 png whose rows run from bright to dark
func writeGradient(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(250 - x*60)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	path := filepath.Join(dir, "gradient.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestRunSortsAndSaves(t *testing.T) {
	application, previewer := newTestApplication(t)
	dir := t.TempDir()

	cfg := models.DefaultSortConfiguration()
	cfg.ImagePath = writeGradient(t, dir)
	cfg.Threshold = 0
	cfg.Bands = 2
	cfg.MaskOutput = filepath.Join(dir, "mask.png")

	result, err := application.Run(&cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "gradient_sorted.png"), result.OutputPath)
	assert.Equal(t, 2, result.Bands)
	assert.Equal(t, 2, result.Runs)
	assert.Equal(t, 8, result.SortedPixel)
	assert.Contains(t, result.Timings, "sort")
	assert.Empty(t, previewer.titles)
	assert.Equal(t, 1, previewer.shutdown)

	saved, err := services.NewImageService(nil, nil).LoadImage(context.Background(), result.OutputPath)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		row := saved.Raster.Row(y)
		for x := 1; x < len(row); x++ {
			assert.LessOrEqual(t, models.WeightedKey(row[x-1]), models.WeightedKey(row[x]))
		}
	}

	mask, err := services.NewImageService(nil, nil).LoadImage(context.Background(), cfg.MaskOutput)
	require.NoError(t, err)
	assert.Equal(t, models.Pixel{R: 255, G: 255, B: 255}, mask.Raster.At(0, 0))
}

func TestRunShowsPreview(t *testing.T) {
	application, previewer := newTestApplication(t)
	dir := t.TempDir()

	cfg := models.DefaultSortConfiguration()
	cfg.ImagePath = writeGradient(t, dir)
	cfg.Output = filepath.Join(dir, "out.png")
	cfg.Preview = true

	_, err := application.Run(&cfg)
	require.NoError(t, err)
	require.Len(t, previewer.titles, 1)
	assert.Contains(t, previewer.titles[0], "out.png")
}

func TestRunRejectsInvalidConfiguration(t *testing.T) {
	application, _ := newTestApplication(t)
	dir := t.TempDir()

	cfg := models.DefaultSortConfiguration()
	cfg.ImagePath = writeGradient(t, dir)
	cfg.Bands = 0

	_, err := application.Run(&cfg)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "gradient_sorted.png"))
}

func TestRunMissingInput(t *testing.T) {
	application, _ := newTestApplication(t)

	cfg := models.DefaultSortConfiguration()
	cfg.ImagePath = filepath.Join(t.TempDir(), "missing.png")

	_, err := application.Run(&cfg)
	assert.ErrorIs(t, err, services.ErrCodec)
}

func TestRunMaskFailureRemovesOutput(t *testing.T) {
	application, _ := newTestApplication(t)
	dir := t.TempDir()

	cfg := models.DefaultSortConfiguration()
	cfg.ImagePath = writeGradient(t, dir)
	cfg.MaskOutput = filepath.Join(dir, "missing-dir", "mask.png")

	_, err := application.Run(&cfg)
	require.ErrorIs(t, err, services.ErrCodec)
	assert.NoFileExists(t, filepath.Join(dir, "gradient_sorted.png"))
}
