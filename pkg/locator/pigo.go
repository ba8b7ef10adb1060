package locator

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/menta2k/headshot/pkg/types"
)

// PigoConfig holds cascade parameters for the pigo face detector.
type PigoConfig struct {
	MinSize          int
	MaxSize          int
	ShiftFactor      float64
	ScaleFactor      float64
	ClusterThreshold float64
	QualityThreshold float32
}

// DefaultPigoConfig returns detection parameters suitable for frontal
// portrait photographs.
func DefaultPigoConfig() PigoConfig {
	return PigoConfig{
		MinSize:          30,
		MaxSize:          2000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		ClusterThreshold: 0.18,
		QualityThreshold: 5.0,
	}
}

// PigoLocator detects faces with the pigo pixel-intensity cascade. It is
// pure Go and runs without external services.
type PigoLocator struct {
	classifier *pigo.Pigo
	config     PigoConfig
}

// NewPigoLocator creates a locator from an unpacked cascade file.
func NewPigoLocator(cascade []byte, config PigoConfig) (*PigoLocator, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade file: %w", err)
	}
	return &PigoLocator{classifier: classifier, config: config}, nil
}

// NewPigoLocatorFromFile loads the cascade from a file path.
func NewPigoLocatorFromFile(path string, config PigoConfig) (*PigoLocator, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}
	return NewPigoLocator(cascade, config)
}

// DetectFaces runs the cascade over the image and returns face boxes,
// largest first.
func (l *PigoLocator) DetectFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)

	pixels := pigo.RgbToGrayscale(nrgba)
	cols, rows := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	cParams := pigo.CascadeParams{
		MinSize:     l.config.MinSize,
		MaxSize:     l.config.MaxSize,
		ShiftFactor: l.config.ShiftFactor,
		ScaleFactor: l.config.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := l.classifier.RunCascade(cParams, 0)
	dets = l.classifier.ClusterDetections(dets, l.config.ClusterThreshold)

	return detectionsToBoxes(dets, l.config.QualityThreshold), nil
}

// detectionsToBoxes converts pigo detections (center row/col plus scale) to
// top-left boxes, dropping low-quality hits and ordering largest first.
func detectionsToBoxes(dets []pigo.Detection, qThresh float32) []types.Box {
	boxes := make([]types.Box, 0, len(dets))
	for _, det := range dets {
		if det.Q < qThresh {
			continue
		}
		boxes = append(boxes, types.Box{
			X: det.Col - det.Scale/2,
			Y: det.Row - det.Scale/2,
			W: det.Scale,
			H: det.Scale,
		})
	}
	sortLargestFirst(boxes)
	return boxes
}
