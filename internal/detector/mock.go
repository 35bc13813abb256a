package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	faces []FaceLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces ...FaceLandmarks) {
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured faces or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]FaceLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// SyntheticFace builds a face whose nose tip sits at noseX pixels and whose
// eyes both have the given aspect ratio, as seen in a width x height frame.
func SyntheticFace(noseX, eyeRatio float64, width, height int) FaceLandmarks {
	w, h := float64(width), float64(height)
	face := FaceLandmarks{
		Points: make([]Point3D, NumLandmarks),
		Score:  0.95,
	}
	for i := range face.Points {
		face.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}

	face.Points[NoseTip] = Point3D{X: noseX / w, Y: 0.55}

	// Eye corners are 60 px apart; lid distance follows from the ratio.
	const eyeWidth = 60.0
	lid := eyeRatio * eyeWidth
	eye := func(upper, lower, c1, c2 int, cx float64) {
		face.Points[c1] = Point3D{X: (cx - eyeWidth/2) / w, Y: 0.4}
		face.Points[c2] = Point3D{X: (cx + eyeWidth/2) / w, Y: 0.4}
		face.Points[upper] = Point3D{X: cx / w, Y: (0.4*h - lid/2) / h}
		face.Points[lower] = Point3D{X: cx / w, Y: (0.4*h + lid/2) / h}
	}
	eye(LeftEyeUpper, LeftEyeLower, LeftEyeOuter, LeftEyeInner, noseX-70)
	eye(RightEyeUpper, RightEyeLower, RightEyeInner, RightEyeOuter, noseX+70)

	return face
}

// OpenEyesFace returns a face looking straight ahead with open eyes.
func OpenEyesFace(noseX float64, width, height int) FaceLandmarks {
	return SyntheticFace(noseX, 0.3, width, height)
}

// BlinkingFace returns a face with both eyes closed.
func BlinkingFace(noseX float64, width, height int) FaceLandmarks {
	return SyntheticFace(noseX, 0.05, width, height)
}
