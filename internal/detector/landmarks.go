// Package detector provides face landmark detection for head and blink tracking.
package detector

import "math"

// Face mesh landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	NoseTip = 1

	LeftEyeUpper = 159
	LeftEyeLower = 145
	LeftEyeOuter = 33
	LeftEyeInner = 133

	RightEyeUpper = 386
	RightEyeLower = 374
	RightEyeInner = 362
	RightEyeOuter = 263

	// NumLandmarks is the face mesh size with refined eye and iris points.
	NumLandmarks = 478
)

// Point3D is a landmark position. X and Y are normalized to [0, 1] across the
// frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a position in frame pixels.
type Point2D struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// FaceLandmarks is the landmark set of a single detected face.
type FaceLandmarks struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}

// Has reports whether index i is present in the set.
func (f *FaceLandmarks) Has(i int) bool {
	return f != nil && i >= 0 && i < len(f.Points)
}

// Pixel returns landmark i scaled to a width x height frame.
// Missing landmarks map to the origin.
func (f *FaceLandmarks) Pixel(i, width, height int) Point2D {
	if !f.Has(i) {
		return Point2D{}
	}
	p := f.Points[i]
	return Point2D{X: p.X * float64(width), Y: p.Y * float64(height)}
}
