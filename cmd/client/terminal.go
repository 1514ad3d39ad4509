package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/vectorspace/pkg/engine"
	"github.com/opd-ai/vectorspace/pkg/logging"
	"github.com/opd-ai/vectorspace/pkg/render"
)

// runTerminal drives game on screen at the configured tick rate until ctx
// is done or the player quits. screen must already be initialized.
func runTerminal(ctx context.Context, screen tcell.Screen, game *engine.Game, logger *logging.Logger, scale float64) error {
	renderer := render.NewTerminalRenderer(screen, game.Config.Bounds(), scale)
	input := render.NewInputHandler(game.Ship, render.DefaultHoldWindow)

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, events, done)

	ticker := time.NewTicker(time.Second / time.Duration(game.Config.Server.TickRate))
	defer ticker.Stop()

	game.Start()
	defer game.Stop()
	game.Draw(renderer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if input.HandleKey(ev, time.Now()) {
					logger.Info(ctx, "player quit", "tick", game.Ticks())
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			input.Expire(now)
			if err := game.Update(); err != nil {
				return err
			}
			game.Draw(renderer)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}
