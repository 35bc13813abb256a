package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ayusman/headshooter/internal/game"
)

// Palette.
var (
	BackgroundColor  = color.RGBA{R: 18, G: 18, B: 18, A: 255}
	PlayerColor      = color.RGBA{R: 0, G: 140, B: 255, A: 255}
	ProjectileColor  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	EnemyColor       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	HUDColor         = color.RGBA{R: 255, G: 105, B: 180, A: 255}
	CalibratingColor = color.RGBA{R: 255, G: 180, B: 200, A: 255}
	GameOverColor    = color.RGBA{R: 255, G: 90, B: 120, A: 255}
	HintColor        = color.RGBA{R: 255, G: 200, B: 220, A: 255}
)

const (
	ProjectileRadius = 6

	// HUDHeight is the height of the score band centred on the playfield.
	HUDHeight = 150
	// HUDAlpha is the opacity of the score band.
	HUDAlpha = 100.0 / 255.0

	LargeText  = 40
	MediumText = 26

	// FadeDuration is the banner fade-in time in seconds.
	FadeDuration = 0.4

	Heart = "♥"

	CalibratingMessage = "CALIBRATING – KEEP HEAD STILL"
	GameOverMessage    = "GAME OVER"
	HintMessage        = "R = Restart   Q = Quit"
)

// Frame is everything drawn in one frame.
type Frame struct {
	State *game.State
	// Best is the best score of the session, shown on the game-over banner.
	Best int
}

// Renderer draws frames and fades phase banners in.
type Renderer struct {
	dt      float32
	phase   game.Phase
	started bool
	fade    *gween.Tween
	alpha   float32
}

// NewRenderer creates a Renderer whose fade advances at tps ticks per second.
func NewRenderer(tps int) *Renderer {
	if tps <= 0 {
		tps = 60
	}
	return &Renderer{
		dt:    1 / float32(tps),
		alpha: 1,
	}
}

// Update advances the banner fade by one tick. A phase change restarts it.
func (r *Renderer) Update(phase game.Phase) {
	if !r.started || phase != r.phase {
		r.started = true
		r.phase = phase
		r.fade = gween.New(0, 1, FadeDuration, ease.OutQuad)
		r.alpha = 0
	}

	if r.fade == nil {
		return
	}

	v, done := r.fade.Update(r.dt)
	r.alpha = v
	if done {
		r.fade = nil
		r.alpha = 1
	}
}

// BannerAlpha returns the current banner opacity in [0, 1].
func (r *Renderer) BannerAlpha() float64 {
	a := float64(r.alpha)
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Render draws f onto s.
func (r *Renderer) Render(s Surface, f Frame) {
	st := f.State
	cfg := st.Config()
	cx, cy := cfg.Width/2, cfg.Height/2

	s.Clear(BackgroundColor)

	// Blink while invincible.
	if st.Invincible%10 < 5 {
		s.FillRect(st.Player.Rect(), PlayerColor)
	}

	for _, p := range st.Projectiles {
		x, y := p.Bounds.Center()
		s.FillCircle(x, y, ProjectileRadius, ProjectileColor)
	}

	for _, e := range st.Enemies {
		s.FillRect(e.Bounds, EnemyColor)
	}

	top := cy - HUDHeight/2
	s.Overlay(HUDAlpha, func(hud Surface) {
		hud.Text(fmt.Sprintf("SCORE %d", st.Score), cx, top+30, LargeText, HUDColor)
		if st.Lives > 0 {
			hud.Text(Hearts(st.Lives), cx, top+84, MediumText, HUDColor)
		}
	})

	switch st.Phase {
	case game.PhaseCalibrating:
		s.Overlay(r.BannerAlpha(), func(b Surface) {
			b.Text(CalibratingMessage, cx, cy-126, MediumText, CalibratingColor)
		})
	case game.PhaseGameOver:
		s.Overlay(r.BannerAlpha(), func(b Surface) {
			b.Text(GameOverMessage, cx, cy+120, LargeText, GameOverColor)
			b.Text(HintMessage, cx, cy+164, MediumText, HintColor)
			b.Text(fmt.Sprintf("BEST %d", f.Best), cx, cy+204, MediumText, HintColor)
		})
	}
}

// Hearts returns one heart per life separated by spaces.
func Hearts(lives int) string {
	if lives <= 0 {
		return ""
	}
	return strings.TrimSpace(strings.Repeat(Heart+" ", lives))
}
