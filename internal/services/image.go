package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixelsorter/internal/debug/timing"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
)

// ErrCodec wraps every decode and encode failure
var ErrCodec = errors.New("codec failure")

// ImageService handles image loading, saving, and format conversions
type ImageService struct {
	logger logger.Logger
	timing *timing.Tracker
}

// NewImageService creates a new image service
func NewImageService(log logger.Logger, tracker *timing.Tracker) *ImageService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ImageService{
		logger: log,
		timing: tracker,
	}
}

// LoadImage decodes the file at path into a raster, dropping alpha
func (is *ImageService) LoadImage(ctx context.Context, path string) (*models.ImageData, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	span := is.timing.Start("decode")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrCodec, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat image: %w", ErrCodec, err)
	}

	img, format, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %w", ErrCodec, path, err)
	}

	raster, hadAlpha := ImageToRaster(img)

	imageData := &models.ImageData{
		Raster:   raster,
		Path:     path,
		Format:   format,
		FileSize: info.Size(),
		HadAlpha: hadAlpha,
		LoadTime: span.End(),
	}

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"path":      path,
		"format":    format,
		"width":     raster.Width,
		"height":    raster.Height,
		"file_size": info.Size(),
		"had_alpha": hadAlpha,
	})

	return imageData, nil
}

// SaveImage encodes raster to path; the format follows the file extension
func (is *ImageService) SaveImage(ctx context.Context, path string, raster *models.Raster, quality int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := raster.Validate(); err != nil {
		return fmt.Errorf("%w: no valid image data to save: %w", ErrCodec, err)
	}

	span := is.timing.Start("encode")
	defer span.End()

	format := DetermineFormat(filepath.Ext(path))
	if err := is.writeAtomically(path, func(w io.Writer) error {
		return is.SaveToWriter(w, raster, format, quality)
	}); err != nil {
		return err
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"path":   path,
		"format": format,
		"width":  raster.Width,
		"height": raster.Height,
	})
	return nil
}

// writeAtomically encodes into a temporary file next to path and renames it
// into place, so a failed encode never leaves a partial image at path
func (is *ImageService) writeAtomically(path string, encode func(io.Writer) error) (err error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", ErrCodec, path, err)
	}
	tmp := file.Name()
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := encode(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrCodec, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrCodec, path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: failed to set permissions on %s: %w", ErrCodec, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: failed to move %s into place: %w", ErrCodec, path, err)
	}
	return nil
}

// SaveToWriter encodes raster in the given format
func (is *ImageService) SaveToWriter(writer io.Writer, raster *models.Raster, format string, quality int) error {
	img := RasterToImage(raster)

	var err error
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "bmp":
		err = bmp.Encode(writer, img)
	case "tiff", "tif":
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = png.Encode(writer, img)
	}

	if err != nil {
		return fmt.Errorf("%w: %s encoding failed: %w", ErrCodec, format, err)
	}
	return nil
}

// DetermineFormat maps a file extension to an encoder name, defaulting to png
func DetermineFormat(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tiff", ".tif":
		return "tiff"
	default:
		return "png"
	}
}

// GetSupportedFormats returns the decodable formats
func GetSupportedFormats() []string {
	return []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"}
}

// ImageToRaster copies img into a raster and reports whether alpha was dropped
func ImageToRaster(img image.Image) (*models.Raster, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	raster := &models.Raster{Width: width, Height: height, Pix: make([]models.Pixel, width*height)}

	hadAlpha := false
	if o, ok := img.(interface{ Opaque() bool }); ok {
		hadAlpha = !o.Opaque()
	}

	switch typedImg := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := typedImg.NRGBAAt(x+bounds.Min.X, y+bounds.Min.Y)
				raster.Set(x, y, models.Pixel{R: c.R, G: c.G, B: c.B})
			}
		}
	case *image.RGBA:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(typedImg.RGBAAt(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
				raster.Set(x, y, models.Pixel{R: c.R, G: c.G, B: c.B})
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
				raster.Set(x, y, models.Pixel{R: c.R, G: c.G, B: c.B})
			}
		}
	}

	return raster, hadAlpha
}

// RasterToImage converts a raster to an opaque RGBA image
func RasterToImage(raster *models.Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, raster.Width, raster.Height))
	for i, p := range raster.Pix {
		o := i * 4
		img.Pix[o] = p.R
		img.Pix[o+1] = p.G
		img.Pix[o+2] = p.B
		img.Pix[o+3] = 255
	}
	return img
}
