// Package conversion moves pixels between rasters and BGR OpenCV matrices.
package conversion

import (
	"fmt"

	"gocv.io/x/gocv"

	"pixelsorter/internal/models"
	"pixelsorter/internal/opencv/safe"
)

// RasterToMat packs src into an owned 8-bit BGR Mat
func RasterToMat(src *models.Raster) (*safe.Mat, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("raster to Mat: %w", err)
	}
	if err := safe.ValidateDimensions(src.Width, src.Height, "raster to Mat"); err != nil {
		return nil, err
	}

	bgr := make([]byte, 0, len(src.Pix)*3)
	for _, p := range src.Pix {
		bgr = append(bgr, p.B, p.G, p.R)
	}

	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return nil, fmt.Errorf("raster to Mat: %w", err)
	}
	defer mat.Close()

	// NewMatFromBytes borrows bgr; Own copies it into OpenCV memory
	return safe.Own(mat)
}

// MatToRaster unpacks an 8-bit BGR Mat
func MatToRaster(src *safe.Mat) (*models.Raster, error) {
	if err := safe.Validate(src, 3, "Mat to raster"); err != nil {
		return nil, err
	}

	var out *models.Raster
	err := src.Use(func(mat gocv.Mat) error {
		cols, rows := mat.Cols(), mat.Rows()
		bgr := mat.ToBytes()
		if len(bgr) != cols*rows*3 {
			return fmt.Errorf("Mat to raster: %d bytes for %dx%d BGR", len(bgr), cols, rows)
		}

		pix := make([]models.Pixel, cols*rows)
		for i := range pix {
			o := i * 3
			pix[i] = models.Pixel{R: bgr[o+2], G: bgr[o+1], B: bgr[o]}
		}

		var err error
		out, err = models.NewRasterFromPixels(cols, rows, pix)
		return err
	})
	return out, err
}
