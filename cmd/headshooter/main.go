package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/headshooter/internal/app"
	"github.com/ayusman/headshooter/internal/capture"
	"github.com/ayusman/headshooter/internal/config"
	"github.com/ayusman/headshooter/internal/detector"
	"github.com/ayusman/headshooter/internal/gesture"
	"github.com/ayusman/headshooter/internal/render"
	"github.com/ayusman/headshooter/internal/store"
)

func main() {
	fmt.Println("Head Shooter - steer with your head, blink to fire")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Round ledger lives in memory for the length of the run
	st, err := store.New(store.MemoryDSN)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cam := capture.NewCamera(cfg.CameraOptions())
	if err := cam.Open(); err != nil {
		log.Fatalf("Camera unavailable: %v", err)
	}

	mp, err := detector.NewMediaPipeDetector(cfg.FaceDetector())
	if err != nil {
		cam.Close()
		log.Fatalf("Face landmark service unavailable: %v", err)
	}
	if err := mp.Start(); err != nil {
		cam.Close()
		log.Fatalf("Failed to start face landmark service: %v", err)
	}

	game := app.New(app.Config{
		Camera:      cam,
		Tracker:     gesture.NewLandmarkTracker(mp),
		Events:      &render.KeyboardEvents{},
		Store:       st,
		Game:        cfg.Game(),
		Input:       cfg.InputMapper(),
		Calibration: cfg.Input.Calibration,
		TPS:         cfg.Window.TPS,
	})
	defer game.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(game); err != nil {
		log.Printf("Game loop failed: %v", err)
	}
}
