// Package preview shows a finished image in a window until it is closed.
package preview

import (
	"fmt"
	"image"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"github.com/nfnt/resize"

	"pixelsorter/internal/logger"
)

const (
	AppID = "com.imageprocessing.pixelsorter"

	// MaxWidth and MaxHeight bound the displayed image; larger images are downscaled
	MaxWidth  = 1600
	MaxHeight = 1000
)

// Window wraps the fyne application used for the preview
type Window struct {
	logger  logger.Logger
	app     fyne.App
	running atomic.Bool
}

func NewWindow(log logger.Logger) *Window {
	if log == nil {
		log = logger.NewNop()
	}
	return &Window{logger: log}
}

// Fit returns img scaled down to fit within maxWidth x maxHeight, keeping the aspect ratio
func Fit(img image.Image, maxWidth, maxHeight uint) image.Image {
	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxWidth && uint(bounds.Dy()) <= maxHeight {
		return img
	}
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}

// Show opens a window with img and blocks until it is closed
func (w *Window) Show(title string, img image.Image) {
	display := Fit(img, MaxWidth, MaxHeight)
	bounds := display.Bounds()

	w.app = app.NewWithID(AppID)
	win := w.app.NewWindow(title)

	canvasImg := canvas.NewImageFromImage(display)
	canvasImg.FillMode = canvas.ImageFillContain
	canvasImg.ScaleMode = canvas.ImageScaleSmooth
	canvasImg.SetMinSize(fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy())))

	win.SetContent(canvasImg)
	win.CenterOnScreen()

	w.logger.Info("Preview", "showing result", map[string]interface{}{
		"title":  title,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"scaled": display != img,
	})

	w.running.Store(true)
	defer w.running.Store(false)
	win.ShowAndRun()
}

// Shutdown closes the preview if it is open
func (w *Window) Shutdown() {
	if w.app == nil || !w.running.Load() {
		return
	}
	fyne.Do(func() {
		w.app.Quit()
	})
}

// Title builds the window title for a result
func Title(path string, width, height int) string {
	return fmt.Sprintf("pixelsorter - %s (%dx%d)", path, width, height)
}
