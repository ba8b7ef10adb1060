package client

import (
	"context"

	"github.com/menta2k/headshot/pkg/types"
)

// VisionClient is implemented by vision-model backends capable of locating
// faces in a base64-encoded image.
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	DetectFaces(ctx context.Context, model, prompt, imgB64 string) (*types.FaceAnalysis, error)
}
