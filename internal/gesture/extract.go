// Package gesture extracts head position and blink signals from face landmarks.
package gesture

import "github.com/ayusman/headshooter/internal/detector"

// ratioEpsilon keeps the eye aspect ratio finite when the corners coincide.
const ratioEpsilon = 1e-6

// Eye lists the landmark indices used for one eye aspect ratio.
type Eye struct {
	Upper, Lower int // vertical eyelid pair
	Outer, Inner int // horizontal corner pair
}

// Eye landmark sets on the face mesh.
var (
	LeftEye  = Eye{Upper: detector.LeftEyeUpper, Lower: detector.LeftEyeLower, Outer: detector.LeftEyeOuter, Inner: detector.LeftEyeInner}
	RightEye = Eye{Upper: detector.RightEyeUpper, Lower: detector.RightEyeLower, Outer: detector.RightEyeOuter, Inner: detector.RightEyeInner}
)

// Complete reports whether face carries every landmark Extract reads.
// Missing points would read as the frame origin and fake a closed eye.
func Complete(face *detector.FaceLandmarks) bool {
	for _, i := range []int{
		detector.NoseTip,
		LeftEye.Upper, LeftEye.Lower, LeftEye.Outer, LeftEye.Inner,
		RightEye.Upper, RightEye.Lower, RightEye.Outer, RightEye.Inner,
	} {
		if !face.Has(i) {
			return false
		}
	}
	return true
}

// Reading holds the signals derived from one face.
type Reading struct {
	HeadX float64 // nose tip x in frame pixels
	Blink float64 // mean eye aspect ratio; low means closed
}

// Extract computes the head and blink signals of face in a width x height frame.
func Extract(face *detector.FaceLandmarks, width, height int) Reading {
	left := EyeAspectRatio(face, LeftEye, width, height)
	right := EyeAspectRatio(face, RightEye, width, height)
	return Reading{
		HeadX: face.Pixel(detector.NoseTip, width, height).X,
		Blink: (left + right) / 2,
	}
}

// EyeAspectRatio returns the eyelid gap divided by the eye width, in pixels.
func EyeAspectRatio(face *detector.FaceLandmarks, eye Eye, width, height int) float64 {
	vertical := face.Pixel(eye.Upper, width, height).Distance(face.Pixel(eye.Lower, width, height))
	horizontal := face.Pixel(eye.Outer, width, height).Distance(face.Pixel(eye.Inner, width, height))
	return vertical / (horizontal + ratioEpsilon)
}
