// Package processing handles the pixel-level side of headshot generation:
// image loading and saving, cropping, finalization to the exact target size
// and the optional grayscale pass.
package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Input size limits. Images outside these bounds are rejected before any
// processing happens.
const (
	MinInputDimension = 100
	MaxInputDimension = 10000
)

// Processor performs image processing operations. All methods return freshly
// allocated images; inputs are never mutated.
type Processor struct{}

// NewProcessor creates a new image processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image: unknown format for %s", path)
	}
	return img, nil
}

// LoadImageFromReader decodes an image from an io.Reader.
func (p *Processor) LoadImageFromReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ValidateInput checks that an image is within the supported size range.
func (p *Processor) ValidateInput(img image.Image) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < MinInputDimension || h < MinInputDimension {
		return fmt.Errorf("image too small: %dx%d (minimum: %dx%d)", w, h, MinInputDimension, MinInputDimension)
	}
	if w > MaxInputDimension || h > MaxInputDimension {
		return fmt.Errorf("image too large: %dx%d (maximum: %dx%d)", w, h, MaxInputDimension, MaxInputDimension)
	}
	return nil
}

// Crop cuts the given rectangle out of the image.
func (p *Processor) Crop(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	rect = rect.Intersect(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	if rect.Empty() {
		return nil, fmt.Errorf("empty crop rectangle")
	}
	return imaging.Crop(img, rect), nil
}

// Finalize resizes the cropped image into the target box preserving aspect
// ratio, pads the remainder with the border color and guarantees the output
// dimensions equal the target exactly. The crop is only ever scaled down to
// fit; a crop smaller than the target keeps its pixels and gains a border.
func (p *Processor) Finalize(cropped image.Image, targetWidth, targetHeight int, border color.Color) *image.NRGBA {
	fitted := imaging.Fit(cropped, targetWidth, targetHeight, imaging.Lanczos)

	canvas := imaging.New(targetWidth, targetHeight, border)
	out := imaging.PasteCenter(canvas, fitted)

	if out.Bounds().Dx() != targetWidth || out.Bounds().Dy() != targetHeight {
		out = imaging.Resize(out, targetWidth, targetHeight, imaging.Lanczos)
	}
	return out
}

// Grayscale converts an image to luminance while keeping a 3-channel
// representation, so encoders downstream never need to branch on the color
// model. Applying it twice yields identical pixels.
func (p *Processor) Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// PrepareImageForModel converts an image to base64 for vision-model backends,
// optionally downscaling so the long side does not exceed maxDim.
func (p *Processor) PrepareImageForModel(img image.Image, format string, maxDim, quality int) (string, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveImage writes an image to a file in the given format.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// EncodeImage encodes an image into a byte slice in the given format, for
// callers that hand the result to a HTTP response or archive rather than a
// file.
func (p *Processor) EncodeImage(img image.Image, format string, quality int, lossless bool) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "webp":
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "jpg", "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return buf.Bytes(), nil
}
