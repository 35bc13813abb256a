// Package fixtures provides synthetic camera frames for tests.
package fixtures

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Camera frame size used by the fixtures.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// LoadFrame returns a synthetic BGR webcam frame with a bright face-sized blob at faceX.
func LoadFrame(faceX int) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), FrameHeight, FrameWidth, gocv.MatTypeCV8UC3)
	gocv.Circle(&mat, image.Pt(faceX, FrameHeight/2), FrameHeight/5, color.RGBA{R: 220, G: 190, B: 170, A: 255}, -1)
	return &mat
}

// LoadSequence returns one frame per face position.
func LoadSequence(faceXs ...int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, len(faceXs))
	for _, x := range faceXs {
		frames = append(frames, LoadFrame(x))
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
