package locator

import (
	"context"
	"fmt"
	"image"

	"github.com/menta2k/headshot/pkg/client"
	"github.com/menta2k/headshot/pkg/processing"
	"github.com/menta2k/headshot/pkg/types"
)

// DefaultFacePrompt instructs a vision model to return face bounding boxes.
const DefaultFacePrompt = `You are a face locator for portrait photographs.

Return JSON only:
{
  "faces": [
    {"box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}, "confidence": 0.0}
  ]
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- Each box must tightly enclose one human face from forehead to chin.
- List faces largest first.
- If no face is visible, return {"faces": []}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// VisionConfig configures the vision-model face locator.
type VisionConfig struct {
	Model      string
	Prompt     string
	SendFormat string // format of the image sent to the model: jpg|png
	SendSize   int    // max long side in pixels, 0 = original
	SendQ      int    // JPEG quality for the sent image

	// MinConfidence drops detections below this confidence.
	MinConfidence float64
}

// DefaultVisionConfig returns settings that work with small local vision
// models.
func DefaultVisionConfig(model string) VisionConfig {
	return VisionConfig{
		Model:         model,
		Prompt:        DefaultFacePrompt,
		SendFormat:    "jpg",
		SendSize:      1536,
		SendQ:         85,
		MinConfidence: 0.2,
	}
}

// VisionLocator detects faces by querying a vision model through a
// client.VisionClient.
type VisionLocator struct {
	client    client.VisionClient
	processor *processing.Processor
	config    VisionConfig
}

// NewVisionLocator creates a vision-model backed face locator.
func NewVisionLocator(c client.VisionClient, config VisionConfig) *VisionLocator {
	if config.Prompt == "" {
		config.Prompt = DefaultFacePrompt
	}
	return &VisionLocator{
		client:    c,
		processor: processing.NewProcessor(),
		config:    config,
	}
}

// DetectFaces sends the image to the vision model and converts the reported
// normalized boxes to pixel coordinates, largest first.
func (l *VisionLocator) DetectFaces(ctx context.Context, img image.Image) ([]types.Box, error) {
	imgB64, err := l.processor.PrepareImageForModel(img, l.config.SendFormat, l.config.SendSize, l.config.SendQ)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image for model: %w", err)
	}

	analysis, err := l.client.DetectFaces(ctx, l.config.Model, l.config.Prompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("vision model detection failed: %w", err)
	}

	bounds := img.Bounds()
	boxes := make([]types.Box, 0, len(analysis.Faces))
	for _, f := range analysis.Faces {
		if f.Confidence < l.config.MinConfidence {
			continue
		}
		if f.Box.W <= 0 || f.Box.H <= 0 {
			continue
		}
		boxes = append(boxes, f.Box.ToPixels(bounds.Dx(), bounds.Dy()))
	}
	sortLargestFirst(boxes)
	return boxes, nil
}
