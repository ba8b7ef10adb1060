// Package locator provides face detection backends for headshot generation.
//
// A FaceLocator reports zero or more face bounding boxes in the pixel space
// of the input image, largest first. Zero faces is a valid outcome; an error
// means the detection machinery itself failed.
package locator

import (
	"context"
	"image"
	"sort"

	"github.com/menta2k/headshot/pkg/types"
)

// FaceLocator detects faces in an image.
type FaceLocator interface {
	DetectFaces(ctx context.Context, img image.Image) ([]types.Box, error)
}

// sortLargestFirst orders boxes by area descending, so the first entry is
// the primary face.
func sortLargestFirst(boxes []types.Box) {
	sort.Slice(boxes, func(i, j int) bool {
		return boxes[i].Area() > boxes[j].Area()
	})
}
