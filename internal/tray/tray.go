// Package tray shows a system tray menu for gesturectl: an enable toggle,
// the last fired gesture, a screenshot shortcut and quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu.
type Tray struct {
	onToggle     func(enabled bool)
	onScreenshot func()
	onQuit       func()
	enabled      bool
	lastGesture  string
	mu           sync.RWMutex

	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray in the enabled state.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback run when gesture control is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnScreenshot sets the callback run from the screenshot item.
func (t *Tray) OnScreenshot(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onScreenshot = fn
}

// OnQuit sets the callback run from the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("gesturectl")
	systray.SetTooltip("Hand gesture media control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture control")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastGestureTitle(t.lastGesture), "Last fired gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuScreenshot := systray.AddMenuItem("Take Screenshot", "Save the next camera frame")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit gesturectl")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuScreenshot.ClickedCh:
				t.handleScreenshot()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Callbacks run outside the lock.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleScreenshot() {
	t.mu.RLock()
	callback := t.onScreenshot
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture item.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastGesture = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(name))
	}
}

// LastGesture returns the name shown in the last gesture item.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastGesture
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastGestureTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}
