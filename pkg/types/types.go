package types

import "image"

// Box is a face bounding box in pixel coordinates, top-left origin.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center returns the center point of the box.
func (b Box) Center() (int, int) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Area returns the area of the box in pixels.
func (b Box) Area() int {
	return b.W * b.H
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// NormBox is a bounding box with coordinates normalized to [0,1],
// as returned by vision-model backends.
type NormBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ToPixels converts a normalized box to pixel coordinates for an
// image of the given dimensions.
func (n NormBox) ToPixels(imgW, imgH int) Box {
	fw, fh := float64(imgW), float64(imgH)
	x0 := int(clamp(n.X, 0, 1)*fw + 0.5)
	y0 := int(clamp(n.Y, 0, 1)*fh + 0.5)
	x1 := int(clamp(n.X+n.W, 0, 1)*fw + 0.5)
	y1 := int(clamp(n.Y+n.H, 0, 1)*fh + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// FaceDetection is a single face reported by a vision-model backend.
type FaceDetection struct {
	Box        NormBox `json:"box"`
	Confidence float64 `json:"confidence"`
}

// FaceAnalysis is the complete face detection result from a vision model.
// An empty Faces slice is the normal "no faces found" outcome, not an error.
type FaceAnalysis struct {
	Faces []FaceDetection `json:"faces"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
