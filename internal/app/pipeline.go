package app

import (
	"log"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/headshooter/internal/game"
	"github.com/ayusman/headshooter/internal/render"
	"github.com/ayusman/headshooter/internal/store"
)

// Step runs one tick of the loop:
// 1. Apply window and keyboard events (quit, restart)
// 2. Read a camera frame; on failure skip the rest of the tick
// 3. Extract head position and blink score from the frame
// 4. While calibrating, feed the calibrator and start play once it completes
// 5. While playing, steer the target and fire on blinks
// 6. Advance the game state and record the round when it ends
//
// It returns ebiten.Termination when the player quits.
func (a *App) Step() error {
	if a.config.Events != nil {
		for _, ev := range a.config.Events.Poll() {
			switch ev {
			case render.EventQuit, render.EventQuitKey:
				log.Printf("Quit requested (%s)", ev)
				return ebiten.Termination
			case render.EventRestart:
				a.restart()
			}
		}
	}

	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		if !a.cameraFailing {
			log.Printf("Error reading frame, skipping ticks: %v", err)
			a.cameraFailing = true
		}
		a.skipped = true
		return nil
	}
	if a.cameraFailing {
		log.Println("Camera recovered")
		a.cameraFailing = false
	}
	a.skipped = false

	found, err := a.config.Tracker.Observe(frame)
	frame.Close()
	if err != nil {
		if !a.trackFailing {
			log.Printf("Error tracking head: %v", err)
			a.trackFailing = true
		}
		found = false
	} else {
		a.trackFailing = false
	}

	switch a.state.Phase {
	case game.PhaseCalibrating:
		if found && a.calib.Observe(a.config.Tracker.HeadX(), a.config.Now()) {
			a.startPlay()
		}

	case game.PhasePlaying:
		if found {
			cfg := a.state.Config()
			target := a.mapper.Steer(a.state.Player.TargetX, a.config.Tracker.HeadX(), a.calib.Neutral(), cfg.MaxPlayerX())
			a.state.SetTarget(target)

			if a.mapper.Fire(a.config.Tracker.BlinkScore()) && a.state.Fire() {
				a.shots++
			}
		}
	}
	a.mapper.Tick()

	before := a.state.Phase
	a.state.Tick()
	if before == game.PhasePlaying && a.state.Phase == game.PhaseGameOver {
		a.endRound()
	}

	a.renderer.Update(a.state.Phase)
	return nil
}

func (a *App) startPlay() {
	neutral := a.calib.Neutral()
	a.state.Begin()
	a.roundStart = a.config.Now()
	log.Printf("Calibration complete, neutral head x = %.1f", neutral)

	if a.ledger != nil {
		if err := a.ledger.Sessions().SetNeutral(a.sessionID, neutral); err != nil {
			log.Printf("Failed to record neutral position: %v", err)
		}
	}
}

func (a *App) restart() {
	if !a.state.Restart() {
		return
	}

	a.round++
	a.shots = 0
	a.roundStart = a.config.Now()
	log.Printf("Round %d started", a.round)
}

// endRound records the finished round and refreshes the best score.
func (a *App) endRound() {
	score := a.state.Score
	log.Printf("Round %d over: score %d after %d ticks, %d shots", a.round, score, a.state.Ticks, a.shots)

	if score > a.best {
		a.best = score
	}

	if a.ledger == nil {
		return
	}

	round := &store.Round{
		ID:        uuid.NewString(),
		SessionID: a.sessionID,
		Number:    a.round,
		Score:     score,
		Ticks:     a.state.Ticks,
		Shots:     a.shots,
		StartedAt: a.roundStart,
		EndedAt:   a.config.Now(),
	}
	if err := a.ledger.Rounds().Create(round); err != nil {
		log.Printf("Failed to record round: %v", err)
		return
	}

	best, err := a.ledger.Rounds().Best(a.sessionID)
	if err != nil {
		log.Printf("Failed to read best score: %v", err)
		return
	}
	a.best = best
}
