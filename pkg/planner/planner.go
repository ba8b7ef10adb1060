// Package planner computes headshot crop rectangles from image dimensions,
// an optional face box and a set of processing parameters.
package planner

import (
	"errors"
	"fmt"
	"image"

	"github.com/menta2k/headshot/pkg/params"
	"github.com/menta2k/headshot/pkg/types"
)

// ErrDegenerateCrop is returned when the computed crop rectangle would have
// zero or negative width or height after all adjustments. Shifts alone can
// never trigger it: a crop pushed past an image edge is pulled back and
// clamped, collapsing at worst to the full image span on that axis.
var ErrDegenerateCrop = errors.New("degenerate crop rectangle")

// PlanCrop computes the crop rectangle for an image of the given dimensions.
// When face is nil the crop is centered on the image; otherwise it is built
// around the face box using the padding ratios. The returned rectangle always
// satisfies 0 <= Min.X < Max.X <= imgW and 0 <= Min.Y < Max.Y <= imgH.
//
// The parameters must have passed Validate; PlanCrop itself only guards
// against degenerate geometry.
func PlanCrop(imgW, imgH int, face *types.Box, p params.ProcessingParameters) (image.Rectangle, error) {
	if imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: image is %dx%d", ErrDegenerateCrop, imgW, imgH)
	}
	if face == nil {
		return planCenterCrop(imgW, imgH, p)
	}
	return planFaceCrop(imgW, imgH, *face, p)
}

// planCenterCrop computes the largest crop of the target aspect ratio that
// fits the image, scaled by the zoom factor and centered with shifts applied.
func planCenterCrop(imgW, imgH int, p params.ProcessingParameters) (image.Rectangle, error) {
	ratio := p.TargetRatio()

	baseW := min(imgW, int(float64(imgH)*ratio))
	baseH := min(imgH, int(float64(imgW)/ratio))

	cropW := int(float64(baseW) * p.ZoomOutFactor)
	cropH := int(float64(baseH) * p.ZoomOutFactor)
	if cropW <= 0 || cropH <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d", ErrDegenerateCrop, cropW, cropH)
	}

	left := (imgW-cropW)/2 + p.ShiftX
	top := (imgH-cropH)/2 + p.ShiftY

	left, top, right, bottom := constrainBounds(left, top, left+cropW, top+cropH, imgW, imgH)
	if right <= left || bottom <= top {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d", ErrDegenerateCrop, right-left, bottom-top)
	}
	return image.Rect(left, top, right, bottom), nil
}

// planFaceCrop builds the crop around the face box. After bounds correction
// the crop is grown on one axis so its aspect ratio matches the target,
// whenever the image allows it.
func planFaceCrop(imgW, imgH int, face types.Box, p params.ProcessingParameters) (image.Rectangle, error) {
	padTop := int(float64(face.H) * p.PaddingTopRatio)
	padBottom := int(float64(face.H) * p.PaddingBottomRatio)
	padSide := int(float64(face.W) * p.PaddingSideRatio)

	cropW := int(float64(face.W+2*padSide) * p.ZoomOutFactor)
	cropH := int(float64(face.H+padTop+padBottom) * p.ZoomOutFactor)
	if cropW <= 0 || cropH <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d", ErrDegenerateCrop, cropW, cropH)
	}

	left := face.X + face.W/2 - cropW/2 + p.ShiftX
	top := face.Y + face.H/2 - cropH/2 + p.ShiftY

	left, top, right, bottom := constrainBounds(left, top, left+cropW, top+cropH, imgW, imgH)

	cropW = right - left
	cropH = bottom - top
	if cropW <= 0 || cropH <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d", ErrDegenerateCrop, cropW, cropH)
	}

	// Grow one dimension so the crop matches the target aspect ratio,
	// recentered and re-clamped to the image.
	ratio := p.TargetRatio()
	if float64(cropW)/float64(cropH) > ratio {
		newH := int(float64(cropW) / ratio)
		top = max(0, top-(newH-cropH)/2)
		bottom = min(imgH, top+newH)
	} else {
		newW := int(float64(cropH) * ratio)
		left = max(0, left-(newW-cropW)/2)
		right = min(imgW, left+newW)
	}

	return image.Rect(left, top, right, bottom), nil
}

// constrainBounds keeps a crop box inside the image. Out-of-range edges are
// corrected by shifting the opposite edge inward, preserving the box size
// whenever the image is large enough to contain it; the final hard clamp
// covers images smaller than the requested crop.
func constrainBounds(left, top, right, bottom, imgW, imgH int) (int, int, int, int) {
	if left < 0 {
		right -= left
		left = 0
	}
	if top < 0 {
		bottom -= top
		top = 0
	}
	if right > imgW {
		left -= right - imgW
		right = imgW
	}
	if bottom > imgH {
		top -= bottom - imgH
		bottom = imgH
	}

	left = max(0, left)
	top = max(0, top)
	right = min(imgW, right)
	bottom = min(imgH, bottom)

	return left, top, right, bottom
}
