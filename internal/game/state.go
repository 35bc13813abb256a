// Package game implements the head shooter game state machine.
package game

// Phase is the overall game phase.
type Phase int

const (
	// PhaseCalibrating waits for the neutral head position to be captured.
	PhaseCalibrating Phase = iota
	// PhasePlaying advances entities every tick.
	PhasePlaying
	// PhaseGameOver is entered when the last life is lost.
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCalibrating:
		return "calibrating"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Source is the pseudo-random source used for enemy spawns.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Player is the avatar steered by head movement.
type Player struct {
	X       float64 // current, smoothed position
	TargetX float64 // position the avatar glides toward
	Y       float64
	W       float64
	H       float64
}

// Rect returns the player's bounding box.
func (p Player) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Projectile is a shot travelling upward.
type Projectile struct {
	Bounds Rect
}

// Enemy is a falling target.
type Enemy struct {
	Bounds Rect
}

// State owns every mutable piece of a game session.
type State struct {
	Phase       Phase
	Player      Player
	Projectiles []Projectile
	Enemies     []Enemy
	Score       int
	Lives       int
	Invincible  int // ticks of invincibility left
	Ticks       int // ticks advanced in the current round

	cfg Config
	rng Source
}

// New creates a State in the calibrating phase with the player centered.
func New(cfg Config, rng Source) *State {
	x := cfg.Width / 2
	return &State{
		Phase: PhaseCalibrating,
		Player: Player{
			X:       x,
			TargetX: x,
			Y:       cfg.Height - cfg.PlayerBottomGap,
			W:       cfg.PlayerWidth,
			H:       cfg.PlayerHeight,
		},
		Lives: cfg.Lives,
		cfg:   cfg,
		rng:   rng,
	}
}

// Config returns the configuration the state was created with.
func (s *State) Config() Config {
	return s.cfg
}

// Begin moves a calibrating game into play. It returns false in any other phase.
func (s *State) Begin() bool {
	if s.Phase != PhaseCalibrating {
		return false
	}
	s.Phase = PhasePlaying
	return true
}

// Restart resets the round after a game over. It returns false in any other phase.
// The player keeps its position and calibration is not repeated.
func (s *State) Restart() bool {
	if s.Phase != PhaseGameOver {
		return false
	}
	s.Projectiles = s.Projectiles[:0]
	s.Enemies = s.Enemies[:0]
	s.Score = 0
	s.Lives = s.cfg.Lives
	s.Invincible = 0
	s.Ticks = 0
	s.Phase = PhasePlaying
	return true
}

// SetTarget sets the player's target x, clamped to the playfield.
func (s *State) SetTarget(x float64) {
	s.Player.TargetX = clamp(x, 0, s.cfg.MaxPlayerX())
}

// Fire launches a projectile from the top center of the player.
// Shots are only accepted while playing.
func (s *State) Fire() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	size := s.cfg.ProjectileSize
	s.Projectiles = append(s.Projectiles, Projectile{Bounds: Rect{
		X: s.Player.X + s.Player.W/2 - size/2,
		Y: s.Player.Y - size,
		W: size,
		H: size,
	}})
	return true
}

// Tick runs one fixed step: the player glides toward its target in every
// phase, and entities advance while playing. The invincibility countdown
// keeps running after a game over so the player stops blinking.
func (s *State) Tick() {
	s.glide()
	switch s.Phase {
	case PhasePlaying:
		s.advance()
	case PhaseGameOver:
		if s.Invincible > 0 {
			s.Invincible--
		}
	}
}

// glide applies exponential smoothing to the player x.
func (s *State) glide() {
	maxX := s.cfg.MaxPlayerX()
	s.Player.TargetX = clamp(s.Player.TargetX, 0, maxX)
	a := s.cfg.Smoothing
	s.Player.X = clamp(s.Player.X*(1-a)+s.Player.TargetX*a, 0, maxX)
}

func (s *State) advance() {
	s.Ticks++

	// Projectiles move first and leave through the top.
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		p.Bounds.Y -= s.cfg.ProjectileSpeed
		if p.Bounds.Y < 0 {
			continue
		}
		kept = append(kept, p)
	}
	s.Projectiles = kept

	if s.cfg.SpawnChance > 0 && s.rng.IntN(s.cfg.SpawnChance) == 0 {
		s.spawn()
	}

	player := s.Player.Rect()
	enemies := s.Enemies[:0]
	for _, e := range s.Enemies {
		e.Bounds.Y += s.cfg.EnemySpeed

		hit := e.Bounds.Intersects(player)
		escaped := e.Bounds.Y > s.cfg.Height
		if (hit || escaped) && s.Invincible == 0 && s.Lives > 0 {
			s.Lives--
			s.Invincible = s.cfg.InvincibleTicks
			if s.Lives == 0 {
				s.Phase = PhaseGameOver
			}
			continue
		}
		if escaped {
			continue
		}

		if i := s.firstHit(e.Bounds); i >= 0 {
			s.Projectiles = append(s.Projectiles[:i], s.Projectiles[i+1:]...)
			s.Score++
			continue
		}
		enemies = append(enemies, e)
	}
	s.Enemies = enemies

	if s.Invincible > 0 {
		s.Invincible--
	}
}

// firstHit returns the index of the first projectile overlapping r, or -1.
func (s *State) firstHit(r Rect) int {
	for i, p := range s.Projectiles {
		if r.Intersects(p.Bounds) {
			return i
		}
	}
	return -1
}

func (s *State) spawn() {
	lo := s.cfg.EnemySpawnMargin
	hi := s.cfg.Width - s.cfg.EnemyWidth - s.cfg.EnemySpawnRight
	x := lo
	if span := int(hi - lo); span > 0 {
		x += float64(s.rng.IntN(span + 1))
	}
	s.Enemies = append(s.Enemies, Enemy{Bounds: Rect{
		X: x,
		Y: -s.cfg.EnemyHeight,
		W: s.cfg.EnemyWidth,
		H: s.cfg.EnemyHeight,
	}})
}
