// Package app wires the camera, head tracker, game state and renderer into the ebiten game loop.
package app

import (
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/headshooter/internal/capture"
	"github.com/ayusman/headshooter/internal/game"
	"github.com/ayusman/headshooter/internal/gesture"
	"github.com/ayusman/headshooter/internal/input"
	"github.com/ayusman/headshooter/internal/render"
	"github.com/ayusman/headshooter/internal/store"
)

// DefaultTPS is the tick rate of the game loop.
const DefaultTPS = 60

// Config holds the collaborators and tuning of one game session.
type Config struct {
	Camera  capture.Camera
	Tracker gesture.HeadTracker
	Events  render.EventSource
	// Store records sessions and rounds; nil disables the ledger.
	Store *store.Store

	Game        game.Config
	Input       input.Config
	Calibration time.Duration
	TPS         int

	// Rand drives enemy spawns; nil uses a randomly seeded PCG.
	Rand game.Source
	// Now is the clock used for calibration and round timestamps; nil uses time.Now.
	Now func() time.Time
}

// App is one game session. It implements ebiten.Game.
type App struct {
	config   Config
	state    *game.State
	calib    *input.Calibrator
	mapper   *input.Mapper
	renderer *render.Renderer
	surface  *render.EbitenSurface
	ledger   *store.Store

	sessionID  string
	round      int
	roundStart time.Time
	shots      int
	best       int

	skipped       bool // last tick was skipped because no frame was read
	cameraFailing bool
	trackFailing  bool
}

// New creates an App in the calibrating phase. The camera must already be open.
func New(config Config) *App {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Rand == nil {
		config.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if config.TPS <= 0 {
		config.TPS = DefaultTPS
	}
	if config.Calibration <= 0 {
		config.Calibration = input.DefaultCalibrationWindow
	}

	now := config.Now()
	a := &App{
		config:     config,
		state:      game.New(config.Game, config.Rand),
		calib:      input.NewCalibrator(config.Calibration, now),
		mapper:     input.NewMapper(config.Input),
		renderer:   render.NewRenderer(config.TPS),
		ledger:     config.Store,
		sessionID:  uuid.NewString(),
		round:      1,
		roundStart: now,
	}

	if a.ledger != nil {
		if err := a.ledger.Sessions().Create(&store.Session{ID: a.sessionID, StartedAt: now}); err != nil {
			log.Printf("Failed to record session, round ledger disabled: %v", err)
			a.ledger = nil
		}
	}

	log.Printf("Session %s started, calibrating for %s", a.sessionID, config.Calibration)
	return a
}

// Update runs one tick. It is called by ebiten at the configured TPS.
func (a *App) Update() error {
	return a.Step()
}

// Draw renders the state left by the last completed tick.
// A skipped tick leaves the previous frame on screen.
func (a *App) Draw(screen *ebiten.Image) {
	if a.skipped {
		return
	}

	if a.surface == nil {
		s, err := render.NewEbitenSurface()
		if err != nil {
			log.Printf("Failed to create render surface: %v", err)
			return
		}
		a.surface = s
	}

	a.surface.Attach(screen)
	a.Render(a.surface)
}

// Layout returns the fixed playfield size regardless of the window size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := a.state.Config()
	return int(cfg.Width), int(cfg.Height)
}

// Render draws the current frame onto s.
func (a *App) Render(s render.Surface) {
	a.renderer.Render(s, render.Frame{State: a.state, Best: a.best})
}

// State returns the game state.
func (a *App) State() *game.State {
	return a.state
}

// Calibrator returns the neutral head calibrator.
func (a *App) Calibrator() *input.Calibrator {
	return a.calib
}

// SessionID returns the ledger identifier of this run.
func (a *App) SessionID() string {
	return a.sessionID
}

// Best returns the best score reached in this session.
func (a *App) Best() int {
	return a.best
}

// Skipped reports whether the last tick was skipped.
func (a *App) Skipped() bool {
	return a.skipped
}

// Close releases the camera and the head tracker.
func (a *App) Close() error {
	var firstErr error

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
		firstErr = err
	}

	if c, ok := a.config.Tracker.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("Error closing head tracker: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	log.Printf("Session %s closed", a.sessionID)
	return firstErr
}
