package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/gesturectl/internal/pose"
	"github.com/ayusman/gesturectl/internal/state"
)

// runSampling is the sampling activity. Each iteration:
//  1. applies pending settings and screenshot requests
//  2. acquires a sample and classifies it
//  3. debounces, dispatches and records a fired gesture
//  4. publishes a snapshot
//
// It returns when ctx is done, after finishing the current iteration.
func (a *App) runSampling(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		a.sampleOnce()
	}
}

func (a *App) sampleOnce() {
	select {
	case s := <-a.settings:
		a.debouncer.SetCooldowns(s.Cooldowns)
		log.Printf("gesture cooldowns updated: edge %s, level %s", s.Cooldowns.Edge, s.Cooldowns.Level)
	default:
	}

	sample, ok := a.config.Source.Acquire()
	now := a.config.Now()
	a.fps.Tick(now)

	if a.screenshot.Swap(false) {
		a.takeScreenshot(now)
	}

	category := pose.Standby
	if ok {
		category = pose.Classify(sample)
	}

	if ok && a.IsEnabled() {
		at := sample.At
		if at.IsZero() {
			at = now
		}
		if kind, fire := a.debouncer.Evaluate(category, at); fire {
			ev := a.config.Dispatcher.Dispatch(kind, at)
			a.recorder.Record(ev)
			a.journal(sessionEntry(ev))
			a.playback.Apply(kind)
			a.notify(ev)
		}
	}

	a.publish(category, ok, now)
}

func (a *App) publish(category pose.Category, hand bool, now time.Time) {
	a.publisher.Publish(state.Snapshot{
		Category:     category.Label(),
		HandDetected: hand,
		Enabled:      a.IsEnabled(),
		Playing:      a.playback.Playing,
		Volume:       a.playback.Volume,
		FPS:          a.fps.FPS(),
		Stats:        a.recorder.Stats(),
		PublishedAt:  now,
	})
}

// runDisplay is the display activity. It renders the latest snapshot on
// every tick and stops alone after too many consecutive failures.
func (a *App) runDisplay(ctx context.Context) {
	ticker := time.NewTicker(a.config.RefreshInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := a.config.Renderer.Render(a.publisher.Read())
		if err == nil {
			failures = 0
			continue
		}
		if errors.Is(err, ErrDisplayClosed) {
			log.Println("display closed")
			return
		}

		failures++
		log.Printf("render failed (%d/%d): %v", failures, a.config.MaxRenderFailures, err)
		if failures >= a.config.MaxRenderFailures {
			log.Println("display stopped after repeated render failures")
			return
		}
	}
}
