// Package input turns head signals into player steering and fire events.
package input

import "time"

// DefaultCalibrationWindow is how long the head must be held still at startup.
const DefaultCalibrationWindow = 3 * time.Second

// Calibrator captures the neutral head position during a warm-up window.
// Once calibrated it never returns to collecting.
type Calibrator struct {
	window  time.Duration
	start   time.Time
	samples []float64
	neutral float64
	done    bool
}

// NewCalibrator creates a Calibrator whose window starts at start.
func NewCalibrator(window time.Duration, start time.Time) *Calibrator {
	if window <= 0 {
		window = DefaultCalibrationWindow
	}
	return &Calibrator{
		window:  window,
		start:   start,
		samples: make([]float64, 0, 256),
	}
}

// Observe records a head x sample taken at now. It returns true on the call
// that completes calibration.
//
// The baseline is the mean of every sample seen up to the first sample after
// the window has elapsed. If no face was seen during the window, that first
// late sample becomes the baseline on its own.
func (c *Calibrator) Observe(headX float64, now time.Time) bool {
	if c.done {
		return false
	}

	c.samples = append(c.samples, headX)
	if now.Sub(c.start) <= c.window {
		return false
	}

	var sum float64
	for _, v := range c.samples {
		sum += v
	}
	c.neutral = sum / float64(len(c.samples))
	c.done = true
	c.samples = nil
	return true
}

// Calibrated reports whether the neutral position has been captured.
func (c *Calibrator) Calibrated() bool {
	return c.done
}

// Neutral returns the captured neutral head x. It is zero until calibrated.
func (c *Calibrator) Neutral() float64 {
	return c.neutral
}

// Samples returns how many samples are pending while collecting.
func (c *Calibrator) Samples() int {
	return len(c.samples)
}

// Progress returns the fraction of the window elapsed at now, in [0, 1].
func (c *Calibrator) Progress(now time.Time) float64 {
	if c.done {
		return 1
	}
	p := float64(now.Sub(c.start)) / float64(c.window)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
