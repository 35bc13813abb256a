package input

import "math"

// Config holds the steering and fire tuning.
type Config struct {
	// DeadZone is the head displacement in pixels treated as jitter.
	DeadZone float64
	// Gain scales head displacement into target movement per tick.
	Gain float64
	// MaxSpeed caps target movement per tick.
	MaxSpeed float64
	// BlinkThreshold is the eye aspect ratio below which a blink fires.
	BlinkThreshold float64
	// FireCooldown is the minimum number of ticks between shots.
	FireCooldown int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		DeadZone:       25,
		Gain:           0.12,
		MaxSpeed:       10,
		BlinkThreshold: 0.20,
		FireCooldown:   15,
	}
}

// Mapper converts calibrated head signals into a target x and fire events.
type Mapper struct {
	cfg      Config
	cooldown int
}

// NewMapper creates a Mapper with the given tuning.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

// Steer returns the new target x for a head position relative to neutral.
// Displacements inside the dead zone leave the target unchanged. The result
// is always clamped to [0, maxX].
func (m *Mapper) Steer(target, headX, neutral, maxX float64) float64 {
	diff := headX - neutral
	if math.Abs(diff) > m.cfg.DeadZone {
		step := diff * m.cfg.Gain
		if step > m.cfg.MaxSpeed {
			step = m.cfg.MaxSpeed
		} else if step < -m.cfg.MaxSpeed {
			step = -m.cfg.MaxSpeed
		}
		target += step
	}
	return math.Max(0, math.Min(maxX, target))
}

// Fire reports whether a blink score triggers a shot. A shot starts the
// cooldown; no further shot fires until the cooldown has run out.
func (m *Mapper) Fire(blink float64) bool {
	if blink >= m.cfg.BlinkThreshold || m.cooldown > 0 {
		return false
	}
	m.cooldown = m.cfg.FireCooldown
	return true
}

// Tick counts the cooldown down by one. Call it once per tick after Fire.
func (m *Mapper) Tick() {
	if m.cooldown > 0 {
		m.cooldown--
	}
}

// Cooldown returns the ticks left before the next shot is allowed.
func (m *Mapper) Cooldown() int {
	return m.cooldown
}
