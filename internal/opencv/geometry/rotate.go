// Package geometry rotates and crops rasters through OpenCV.
package geometry

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"pixelsorter/internal/models"
	"pixelsorter/internal/opencv/conversion"
	"pixelsorter/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ExpandedSize returns the canvas that holds a width x height image rotated by angle degrees
func ExpandedSize(width, height int, angle float64) (int, int) {
	rad := angle * math.Pi / 180
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))

	w := float64(width)*cos + float64(height)*sin
	h := float64(width)*sin + float64(height)*cos
	return int(math.Round(w)), int(math.Round(h))
}

// RotateMat rotates src counter-clockwise by angle degrees around its centre.
// With expand the canvas grows to fit the rotated image; otherwise it keeps
// the source size. Uncovered pixels are black.
func RotateMat(src *safe.Mat, angle float64, expand bool) (*safe.Mat, error) {
	if err := safe.Validate(src, 0, "rotate"); err != nil {
		return nil, err
	}

	width, height := src.Cols(), src.Rows()
	outWidth, outHeight := width, height
	if expand {
		outWidth, outHeight = ExpandedSize(width, height, angle)
	}
	if err := safe.ValidateDimensions(outWidth, outHeight, "rotate"); err != nil {
		return nil, err
	}

	matrix := gocv.GetRotationMatrix2D(image.Pt(width/2, height/2), angle, 1.0)
	defer matrix.Close()

	// GetRotationMatrix2D only takes an integer centre; recompute the
	// translation around the exact pixel-grid centre and move it onto the
	// centre of the output canvas
	a, b := matrix.GetDoubleAt(0, 0), matrix.GetDoubleAt(0, 1)
	cx, cy := float64(width-1)/2, float64(height-1)/2
	matrix.SetDoubleAt(0, 2, (1-a)*cx-b*cy+float64(outWidth-width)/2)
	matrix.SetDoubleAt(1, 2, b*cx+(1-a)*cy+float64(outHeight-height)/2)

	dst := gocv.NewMat()
	defer dst.Close()

	err := src.Use(func(mat gocv.Mat) error {
		gocv.WarpAffineWithParams(mat, &dst, matrix, image.Pt(outWidth, outHeight),
			gocv.InterpolationNearestNeighbor, gocv.BorderConstant, color.RGBA{})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if dst.Empty() {
		return nil, fmt.Errorf("rotation by %.1f degrees produced an empty Mat", angle)
	}

	return safe.Own(dst)
}

// CropCenterMat cuts a width x height region out of the centre of src
func CropCenterMat(src *safe.Mat, width, height int) (*safe.Mat, error) {
	if err := safe.Validate(src, 0, "crop"); err != nil {
		return nil, err
	}

	cols, rows := src.Cols(), src.Rows()
	if width <= 0 || height <= 0 || width > cols || height > rows {
		return nil, fmt.Errorf("crop region %dx%d does not fit Mat %dx%d", width, height, cols, rows)
	}

	x, y := (cols-width)/2, (rows-height)/2

	var cropped *safe.Mat
	err := src.Use(func(mat gocv.Mat) error {
		region := mat.Region(image.Rect(x, y, x+width, y+height))
		defer region.Close()

		var err error
		cropped, err = safe.Own(region)
		return err
	})
	return cropped, err
}

// Rotate rotates a raster; see RotateMat
func Rotate(src *models.Raster, angle float64, expand bool) (*models.Raster, error) {
	mat, err := conversion.RasterToMat(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	rotated, err := RotateMat(mat, angle, expand)
	if err != nil {
		return nil, err
	}
	defer rotated.Close()

	return conversion.MatToRaster(rotated)
}

// CropCenter cuts a width x height region out of the centre of a raster
func CropCenter(src *models.Raster, width, height int) (*models.Raster, error) {
	mat, err := conversion.RasterToMat(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	cropped, err := CropCenterMat(mat, width, height)
	if err != nil {
		return nil, err
	}
	defer cropped.Close()

	return conversion.MatToRaster(cropped)
}
