// Package app runs gesturectl: a sampling activity that turns camera
// samples into media commands, and a display activity that renders the
// shared state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/pose"
	"github.com/ayusman/gesturectl/internal/session"
	"github.com/ayusman/gesturectl/internal/state"
)

// Defaults for the display activity and shutdown.
const (
	DefaultRefreshInterval   = 250 * time.Millisecond
	DefaultMaxRenderFailures = 10
	DefaultJoinTimeout       = 2 * time.Second
)

// ScreenshotLabel is the history entry recorded for a screenshot.
const ScreenshotLabel = "Screenshot taken"

// ErrDisplayClosed is returned by a Renderer whose display has gone away.
// The display activity stops on it without counting failures.
var ErrDisplayClosed = errors.New("display closed")

// SampleSource yields finger samples. Acquire returns false when there is
// no frame or no hand; acquisition failures are not errors.
type SampleSource interface {
	Open() error
	Acquire() (pose.Sample, bool)
	Close() error
}

// FrameSaver is implemented by sources that can save their latest frame.
type FrameSaver interface {
	SaveFrame(path string) error
}

// Renderer draws a snapshot.
type Renderer interface {
	Render(state.Snapshot) error
}

// Journal receives every history entry. Append must not block.
type Journal interface {
	Append(session.Entry) bool
}

// GestureSettings are the settings that can change while running.
type GestureSettings struct {
	Cooldowns gesture.Cooldowns
}

// Config wires an App. Source and Dispatcher are required.
type Config struct {
	Source     SampleSource
	Dispatcher *control.Dispatcher
	// Renderer is optional; without it there is no display activity.
	Renderer Renderer
	// Journal is optional.
	Journal Journal

	Cooldowns     gesture.Cooldowns
	InitialVolume int
	VolumeStep    int

	RefreshInterval   time.Duration
	MaxRenderFailures int
	JoinTimeout       time.Duration

	ScreenshotDir string

	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// App owns the session state and both activities.
type App struct {
	config    Config
	recorder  *session.Recorder
	publisher *state.Publisher

	// Owned by the sampling activity.
	debouncer *gesture.Debouncer
	playback  *state.Playback
	fps       fpsCounter

	enabled    atomic.Bool
	screenshot atomic.Bool
	settings   chan GestureSettings

	mu        sync.Mutex
	observers []func(gesture.Event)
}

// New creates an App from config, filling defaults.
func New(config Config) *App {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	if config.MaxRenderFailures <= 0 {
		config.MaxRenderFailures = DefaultMaxRenderFailures
	}
	if config.JoinTimeout <= 0 {
		config.JoinTimeout = DefaultJoinTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Cooldowns == (gesture.Cooldowns{}) {
		config.Cooldowns = gesture.DefaultCooldowns()
	}
	if config.Dispatcher == nil {
		config.Dispatcher = control.NewDispatcher(control.LogController{}, 0)
	}

	start := config.Now()
	a := &App{
		config:    config,
		recorder:  session.NewRecorder(start),
		publisher: state.NewPublisher(),
		debouncer: gesture.NewDebouncer(config.Cooldowns),
		playback:  state.NewPlayback(config.InitialVolume, config.VolumeStep),
		settings:  make(chan GestureSettings, 1),
	}
	// Nothing fires until the edge cooldown has passed since start.
	a.debouncer.Arm(start)
	a.enabled.Store(true)
	return a
}

// Publisher returns the shared state publisher.
func (a *App) Publisher() *state.Publisher {
	return a.publisher
}

// Stats returns a copy of the session statistics.
func (a *App) Stats() session.Stats {
	return a.recorder.Stats()
}

// SetEnabled turns dispatching on or off. Samples are still acquired and
// shown while disabled.
func (a *App) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
	log.Printf("gesture control enabled: %v", enabled)
}

// IsEnabled reports whether gestures are dispatched.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// OnEvent registers fn to be called from the sampling activity after each
// fired gesture. fn must not block.
func (a *App) OnEvent(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// RecordActivity adds a side activity to the history without touching the
// gesture counters. Safe to call from any goroutine.
func (a *App) RecordActivity(label string) {
	at := a.config.Now()
	a.recorder.RecordActivity(label, at)
	a.journal(session.Entry{Kind: gesture.KindNone, Label: label, At: at})
}

// RequestScreenshot asks the sampling activity to save its next frame.
func (a *App) RequestScreenshot() {
	a.screenshot.Store(true)
}

// ApplyConfig hands new settings to the sampling activity, which applies
// them at its next iteration. Only the latest pending settings are kept.
func (a *App) ApplyConfig(s GestureSettings) {
	for {
		select {
		case a.settings <- s:
			return
		default:
		}
		select {
		case <-a.settings:
		default:
		}
	}
}

// Run opens the source and runs both activities until ctx is done. A
// source that cannot be opened is fatal and no activity starts.
func (a *App) Run(ctx context.Context) error {
	if a.config.Source == nil {
		return errors.New("no sample source configured")
	}
	if err := a.config.Source.Open(); err != nil {
		return fmt.Errorf("open sample source: %w", err)
	}

	a.publish(pose.Standby, false, a.config.Now())

	displayCtx, stopDisplay := context.WithCancel(context.Background())
	defer stopDisplay()

	displayDone := make(chan struct{})
	if a.config.Renderer != nil {
		go func() {
			defer close(displayDone)
			a.runDisplay(displayCtx)
		}()
	} else {
		close(displayDone)
	}

	a.runSampling(ctx)

	if err := a.config.Source.Close(); err != nil {
		log.Printf("error closing sample source: %v", err)
	}

	stopDisplay()
	select {
	case <-displayDone:
	case <-time.After(a.config.JoinTimeout):
		log.Printf("display did not stop within %s, abandoning it", a.config.JoinTimeout)
	}

	return nil
}

func (a *App) journal(e session.Entry) {
	if a.config.Journal != nil {
		a.config.Journal.Append(e)
	}
}

func (a *App) notify(ev gesture.Event) {
	a.mu.Lock()
	observers := append([]func(gesture.Event)(nil), a.observers...)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}

// takeScreenshot saves the current frame if the source can, then records
// the activity.
func (a *App) takeScreenshot(now time.Time) {
	saver, ok := a.config.Source.(FrameSaver)
	if ok && a.config.ScreenshotDir != "" {
		if err := os.MkdirAll(a.config.ScreenshotDir, 0755); err != nil {
			log.Printf("screenshot failed: %v", err)
			return
		}
		path := filepath.Join(a.config.ScreenshotDir, "screenshot_"+now.Format("20060102_150405.000")+".png")
		if err := saver.SaveFrame(path); err != nil {
			log.Printf("screenshot failed: %v", err)
			return
		}
		log.Printf("screenshot saved to %s", path)
	}
	a.RecordActivity(ScreenshotLabel)
}

func sessionEntry(ev gesture.Event) session.Entry {
	label := ev.Label
	if label == "" {
		label = ev.Kind.Label()
	}
	return session.Entry{Kind: ev.Kind, Label: label, At: ev.FiredAt}
}
