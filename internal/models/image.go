package models

import (
	"time"
)

// ImageData is a decoded image with its source metadata
type ImageData struct {
	Raster   *Raster
	Path     string
	Format   string
	FileSize int64
	HadAlpha bool
	LoadTime time.Duration
}

// Width returns the raster width
func (d *ImageData) Width() int {
	return d.Raster.Width
}

// Height returns the raster height
func (d *ImageData) Height() int {
	return d.Raster.Height
}
