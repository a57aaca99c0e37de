package control

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/plugin"
)

// fakeController records calls and returns err from each capability.
type fakeController struct {
	mu    sync.Mutex
	calls []string
	err   error
	delay time.Duration
}

func (f *fakeController) call(name string) error {
	if f.delay > 0 {
		// Ignores ctx on purpose.
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	return f.err
}

func (f *fakeController) Next(context.Context) error       { return f.call("next") }
func (f *fakeController) Previous(context.Context) error   { return f.call("previous") }
func (f *fakeController) PlayPause(context.Context) error  { return f.call("play_pause") }
func (f *fakeController) VolumeUp(context.Context) error   { return f.call("volume_up") }
func (f *fakeController) VolumeDown(context.Context) error { return f.call("volume_down") }

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestDispatcher_InvokesExactlyOneCapability(t *testing.T) {
	tests := []struct {
		kind gesture.Kind
		want string
	}{
		{gesture.Next, "next"},
		{gesture.Previous, "previous"},
		{gesture.PlayPause, "play_pause"},
		{gesture.VolumeUp, "volume_up"},
		{gesture.VolumeDown, "volume_down"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			ctrl := &fakeController{}
			d := NewDispatcher(ctrl, time.Second)

			at := time.Unix(100, 0)
			ev := d.Dispatch(tt.kind, at)

			calls := ctrl.Calls()
			if len(calls) != 1 || calls[0] != tt.want {
				t.Errorf("expected single call %q, got %v", tt.want, calls)
			}
			if ev.Kind != tt.kind || !ev.FiredAt.Equal(at) || ev.Label != tt.kind.Label() {
				t.Errorf("unexpected event %+v", ev)
			}
		})
	}
}

func TestDispatcher_FailureStillProducesEvent(t *testing.T) {
	ctrl := &fakeController{err: errors.New("no player")}
	d := NewDispatcher(ctrl, time.Second)

	ev := d.Dispatch(gesture.PlayPause, time.Now())
	if ev.Kind != gesture.PlayPause {
		t.Errorf("expected play_pause event, got %v", ev.Kind)
	}
	if len(ctrl.Calls()) != 1 {
		t.Errorf("expected one call, got %d", len(ctrl.Calls()))
	}
}

func TestDispatcher_BoundedWhenControllerIgnoresContext(t *testing.T) {
	ctrl := &fakeController{delay: 2 * time.Second}
	d := NewDispatcher(ctrl, 50*time.Millisecond)

	start := time.Now()
	ev := d.Dispatch(gesture.Next, start)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("dispatch took %v, expected it bounded near 50ms", elapsed)
	}
	if ev.Kind != gesture.Next {
		t.Errorf("expected next event, got %v", ev.Kind)
	}
}

func TestDispatcher_InvalidKind(t *testing.T) {
	ctrl := &fakeController{}
	d := NewDispatcher(ctrl, time.Second)

	d.Dispatch(gesture.KindNone, time.Now())
	if len(ctrl.Calls()) != 0 {
		t.Errorf("expected no calls for KindNone, got %v", ctrl.Calls())
	}
}

func TestNewDispatcher_DefaultTimeout(t *testing.T) {
	if got := NewDispatcher(LogController{}, 0).Timeout(); got != DefaultTimeout {
		t.Errorf("expected %v, got %v", DefaultTimeout, got)
	}
}

func TestLogController(t *testing.T) {
	d := NewDispatcher(LogController{}, time.Second)
	for _, k := range gesture.Kinds {
		if ev := d.Dispatch(k, time.Now()); ev.Kind != k {
			t.Errorf("expected %v, got %v", k, ev.Kind)
		}
	}
}

func TestActionFor(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range gesture.Kinds {
		a := ActionFor(k)
		if a == "" {
			t.Errorf("no action for %v", k)
		}
		if seen[a] {
			t.Errorf("duplicate action %q", a)
		}
		seen[a] = true
	}
	if ActionFor(gesture.KindNone) != "" {
		t.Error("expected no action for KindNone")
	}
}

// installScriptPlugin writes a media plugin that records its stdin.
func installScriptPlugin(t *testing.T, actions []string) (*plugin.Manager, string) {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "media-keys")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(root, "request.json")
	script := "#!/bin/sh\ncat > " + outFile + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	manifest, _ := json.Marshal(plugin.Manifest{Name: "media-keys", Executable: "run.sh", Actions: actions})
	if err := os.WriteFile(filepath.Join(dir, plugin.ManifestFile), manifest, 0644); err != nil {
		t.Fatal(err)
	}

	mgr := plugin.NewManager(root)
	if err := mgr.Discover(); err != nil {
		t.Fatal(err)
	}
	return mgr, outFile
}

func TestPluginController(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	all := []string{ActionNext, ActionPrevious, ActionPlayPause, ActionVolumeUp, ActionVolumeDown}
	mgr, outFile := installScriptPlugin(t, all)

	ctrl, err := NewPluginController(mgr, "media-keys", plugin.NewExecutor(5*time.Second), 8)
	if err != nil {
		t.Fatalf("NewPluginController() error = %v", err)
	}

	t.Run("volume carries step", func(t *testing.T) {
		if err := ctrl.VolumeUp(context.Background()); err != nil {
			t.Fatalf("VolumeUp() error = %v", err)
		}

		raw, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatal(err)
		}
		var req struct {
			Action  string         `json:"action"`
			Gesture string         `json:"gesture"`
			Params  map[string]int `json:"params"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatalf("invalid request %q: %v", raw, err)
		}
		if req.Action != ActionVolumeUp || req.Gesture != "vol_up" || req.Params["step"] != 8 {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("track change has no params", func(t *testing.T) {
		if err := ctrl.Next(context.Background()); err != nil {
			t.Fatalf("Next() error = %v", err)
		}

		raw, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatal(err)
		}
		var req plugin.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatal(err)
		}
		if req.Action != ActionNext || len(req.Params) != 0 {
			t.Errorf("unexpected request %+v", req)
		}
	})
}

func TestNewPluginController_Errors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	mgr, _ := installScriptPlugin(t, []string{ActionNext})

	if _, err := NewPluginController(mgr, "missing", plugin.NewExecutor(0), 8); !errors.Is(err, plugin.ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
	if _, err := NewPluginController(mgr, "media-keys", plugin.NewExecutor(0), 8); err == nil {
		t.Error("expected error for plugin missing actions")
	}
}
