package control

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/gesturectl/internal/gesture"
)

// DefaultTimeout bounds a single dispatch.
const DefaultTimeout = 500 * time.Millisecond

// Dispatcher turns a fired gesture into exactly one Controller call.
type Dispatcher struct {
	ctrl    Controller
	timeout time.Duration
}

// NewDispatcher creates a Dispatcher. A non-positive timeout uses
// DefaultTimeout.
func NewDispatcher(ctrl Controller, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{ctrl: ctrl, timeout: timeout}
}

// Timeout returns the per-dispatch bound.
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Dispatch invokes the capability for k and returns the event to record.
// Controller failures are logged and never returned. Dispatch returns
// within the timeout even when the controller ignores its context; a call
// still running at that point is abandoned.
func (d *Dispatcher) Dispatch(k gesture.Kind, at time.Time) gesture.Event {
	ev := gesture.NewEvent(k, at)
	if !k.Valid() {
		log.Printf("dispatch: ignoring invalid gesture %d", int(k))
		return ev
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- invoke(ctx, d.ctrl, k)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("dispatch %s failed: %v", k, err)
		}
	case <-ctx.Done():
		log.Printf("dispatch %s timed out after %s", k, d.timeout)
	}

	return ev
}
