package preview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	assert.Same(t, img, Fit(img, 200, 200))
}

func TestFitDownscalesKeepingAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))

	out := Fit(img, 200, 200)

	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "pixelsorter - out.png (3x4)", Title("out.png", 3, 4))
}

func TestShutdownWithoutWindow(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWindow(nil).Shutdown()
	})
}
