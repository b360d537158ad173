package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/app"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/config"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gesture"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/recipe"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/server"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/store"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/tray"
)

func main() {
	fmt.Println("Snap2Serve - Gesture Gate")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	settings, err := st.Settings().LoadGate()
	if err != nil {
		log.Fatalf("Failed to load gate settings: %v", err)
	}

	gestureCfg := gesture.DefaultConfig()
	gestureCfg.Cooldown = time.Duration(settings.CooldownMs) * time.Millisecond
	factory := gesture.NewFactory(gesture.Mode(settings.Mode), gestureCfg)

	coordinator := gate.NewCoordinator(gate.Options{
		Enabled:   settings.Enabled,
		Target:    settings.Target,
		TimeLimit: time.Duration(settings.TimeLimitS) * time.Second,
		NewScorer: func() gate.SampleScorer { return factory.New() },
	})

	application := app.New(app.Config{CameraID: cfg.CameraID}, coordinator)
	if err := application.Start(); err != nil {
		log.Printf("Pipeline not started (%v); challenges will fail until the camera is available", err)
	}
	defer application.Stop()

	srv := server.New(server.Config{
		StaticDir:   cfg.StaticDir,
		Store:       st,
		Camera:      application.Camera(),
		Coordinator: coordinator,
		Recipes:     recipe.NewClient(cfg.BackendURL),
		ApplySettings: func(gs store.GateSettings) {
			coordinator.SetEnabled(gs.Enabled)
			coordinator.Configure(gs.Target, time.Duration(gs.TimeLimitS)*time.Second)
			factory.Update(gesture.Mode(gs.Mode), time.Duration(gs.CooldownMs)*time.Millisecond)
		},
	})

	t := tray.New()
	hub := srv.Events()

	// Session events feed both the UI hub and the tray status line
	coordinator.SetNotify(func(ev gate.Event) {
		hub.Publish(ev)
		t.SetStatus(fmt.Sprintf("%s %d/%d", ev.State, ev.Count, ev.Target))
	})
	coordinator.SetActivate(application.EnsureCapture)

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.Tray {
		t.OnToggle(func(enabled bool) {
			coordinator.SetEnabled(enabled)
			if !enabled {
				coordinator.Cancel()
			}
		})
		t.OnQuit(application.Stop)
		t.Run()
		return
	}

	select {}
}
