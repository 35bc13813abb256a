package input

import "testing"

func TestMapper_Steer(t *testing.T) {
	m := NewMapper(DefaultConfig())
	const neutral = 320.0
	const maxX = 540.0

	tests := []struct {
		name   string
		target float64
		headX  float64
		want   float64
	}{
		{"inside dead zone right", 300, neutral + 25, 300},
		{"inside dead zone left", 300, neutral - 25, 300},
		{"just outside dead zone", 300, neutral + 50, 306},
		{"capped at max speed", 300, neutral + 200, 310},
		{"capped at max speed left", 300, neutral - 200, 290},
		{"clamped at left edge", 4, neutral - 200, 0},
		{"clamped at right edge", 538, neutral + 200, 540},
		{"out of range target clamped in dead zone", 700, neutral, 540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Steer(tt.target, tt.headX, neutral, maxX); got != tt.want {
				t.Errorf("Steer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapper_FireThreshold(t *testing.T) {
	tests := []struct {
		name  string
		blink float64
		want  bool
	}{
		{"eyes closed", 0.05, true},
		{"just below threshold", 0.199, true},
		{"at threshold", 0.20, false},
		{"eyes open", 0.35, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(DefaultConfig())
			if got := m.Fire(tt.blink); got != tt.want {
				t.Errorf("Fire(%v) = %v, want %v", tt.blink, got, tt.want)
			}
		})
	}
}

// shots runs ticks ticks with a blink at each listed tick and counts shots.
func shots(ticks int, blinks ...int) int {
	m := NewMapper(DefaultConfig())
	at := make(map[int]bool, len(blinks))
	for _, b := range blinks {
		at[b] = true
	}

	fired := 0
	for tick := 0; tick < ticks; tick++ {
		blink := 0.3
		if at[tick] {
			blink = 0.1
		}
		if m.Fire(blink) {
			fired++
		}
		m.Tick()
	}
	return fired
}

func TestMapper_Cooldown(t *testing.T) {
	tests := []struct {
		name   string
		blinks []int
		want   int
	}{
		{"single blink", []int{0}, 1},
		{"14 ticks apart", []int{0, 14}, 1},
		{"15 ticks apart", []int{0, 15}, 2},
		{"sustained blink", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shots(40, tt.blinks...); got != tt.want {
				t.Errorf("shots = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMapper_CooldownCountsDown(t *testing.T) {
	m := NewMapper(DefaultConfig())
	m.Fire(0.1)
	if m.Cooldown() != 15 {
		t.Fatalf("Cooldown() = %d after firing, want 15", m.Cooldown())
	}

	for i := 0; i < 20; i++ {
		m.Tick()
	}
	if m.Cooldown() != 0 {
		t.Errorf("Cooldown() = %d, want 0", m.Cooldown())
	}
}
