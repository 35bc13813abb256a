package gesture

import (
	"fmt"

	"github.com/ayusman/headshooter/internal/detector"
	"gocv.io/x/gocv"
)

// HeadTracker reports head movement and blink signals one frame at a time.
type HeadTracker interface {
	// Observe processes a frame. found is false when no face is visible,
	// in which case the previous signals are left untouched.
	Observe(frame *gocv.Mat) (found bool, err error)

	// HeadX returns the horizontal head position of the last observed face.
	HeadX() float64

	// BlinkScore returns the mean eye aspect ratio of the last observed face.
	BlinkScore() float64
}

// LandmarkTracker implements HeadTracker on top of a landmark Detector.
type LandmarkTracker struct {
	detector detector.Detector
	last     Reading
}

// NewLandmarkTracker creates a tracker that reads faces from d.
func NewLandmarkTracker(d detector.Detector) *LandmarkTracker {
	return &LandmarkTracker{detector: d}
}

// Observe runs the detector on frame and keeps the signals of the first
// complete face. Partial faces count as no face.
func (t *LandmarkTracker) Observe(frame *gocv.Mat) (bool, error) {
	faces, err := t.detector.Detect(frame)
	if err != nil {
		return false, fmt.Errorf("detect face: %w", err)
	}

	for i := range faces {
		if Complete(&faces[i]) {
			t.last = Extract(&faces[i], frame.Cols(), frame.Rows())
			return true, nil
		}
	}
	return false, nil
}

// HeadX returns the nose tip x of the last observed face.
func (t *LandmarkTracker) HeadX() float64 {
	return t.last.HeadX
}

// BlinkScore returns the blink score of the last observed face.
func (t *LandmarkTracker) BlinkScore() float64 {
	return t.last.Blink
}

// Close releases the underlying detector.
func (t *LandmarkTracker) Close() error {
	return t.detector.Close()
}

// MockTracker is a test implementation of HeadTracker that replays readings.
// A nil entry in the script means no face for that frame.
type MockTracker struct {
	script []*Reading
	err    error
	last   Reading
	calls  int
}

// NewMockTracker creates a MockTracker that plays back script.
func NewMockTracker(script ...*Reading) *MockTracker {
	return &MockTracker{script: script}
}

// Push appends readings to the playback script.
func (m *MockTracker) Push(readings ...*Reading) {
	m.script = append(m.script, readings...)
}

// SetError makes every following Observe fail with err.
func (m *MockTracker) SetError(err error) {
	m.err = err
}

// Calls returns how many frames have been observed.
func (m *MockTracker) Calls() int {
	return m.calls
}

// Observe consumes the next scripted reading. An exhausted script reports no face.
func (m *MockTracker) Observe(frame *gocv.Mat) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	if len(m.script) == 0 {
		return false, nil
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next == nil {
		return false, nil
	}
	m.last = *next
	return true, nil
}

// HeadX returns the last scripted head position.
func (m *MockTracker) HeadX() float64 {
	return m.last.HeadX
}

// BlinkScore returns the last scripted blink score.
func (m *MockTracker) BlinkScore() float64 {
	return m.last.Blink
}
