package display

import (
	"io"
	"log"
	"sync"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the dashboard program and feeds it snapshots. It implements
// app.Renderer.
type TUI struct {
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates the dashboard program. It does not start until Run.
func NewTUI(controls Controls, opts ...tea.ProgramOption) *TUI {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &TUI{
		program: tea.NewProgram(NewModel(controls), opts...),
		done:    make(chan struct{}),
	}
}

// Run blocks until the dashboard exits.
func (t *TUI) Run() error {
	defer close(t.done)
	_, err := t.program.Run()
	return err
}

// Done is closed once Run has returned.
func (t *TUI) Done() <-chan struct{} {
	return t.done
}

// Quit asks the dashboard to exit.
func (t *TUI) Quit() {
	t.program.Quit()
}

// Render hands the snapshot to the dashboard. After the program has
// exited it returns app.ErrDisplayClosed.
func (t *TUI) Render(s state.Snapshot) error {
	select {
	case <-t.done:
		return app.ErrDisplayClosed
	default:
	}
	t.program.Send(snapshotMsg(s))
	return nil
}

// LogRenderer writes one line whenever the visible state changes. FPS and
// clock changes alone do not count.
type LogRenderer struct {
	logger *log.Logger

	mu   sync.Mutex
	last state.Snapshot
	seen bool
}

// NewLogRenderer creates a LogRenderer writing to w.
func NewLogRenderer(w io.Writer) *LogRenderer {
	return &LogRenderer{logger: log.New(w, "", log.LstdFlags)}
}

// Render logs s if it differs from the last logged snapshot.
func (r *LogRenderer) Render(s state.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen && !changed(r.last, s) {
		return nil
	}
	r.last = s
	r.seen = true

	r.logger.Printf("pose=%q hand=%t enabled=%t playing=%t volume=%d fps=%d total=%d",
		s.Category, s.HandDetected, s.Enabled, s.Playing, s.Volume, s.FPS, s.Stats.Total)
	return nil
}

func changed(a, b state.Snapshot) bool {
	return a.Category != b.Category ||
		a.HandDetected != b.HandDetected ||
		a.Enabled != b.Enabled ||
		a.Playing != b.Playing ||
		a.Volume != b.Volume ||
		a.Stats.Total != b.Stats.Total ||
		len(a.Stats.History) != len(b.Stats.History) ||
		!a.Stats.LastActivity.Equal(b.Stats.LastActivity)
}
