// Package control sends fired gestures to the operating system's media
// controls.
package control

import (
	"context"
	"fmt"

	"github.com/ayusman/gesturectl/internal/gesture"
)

// Controller exposes the five media capabilities. Implementations should
// honor ctx, but the Dispatcher does not rely on it.
type Controller interface {
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	PlayPause(ctx context.Context) error
	VolumeUp(ctx context.Context) error
	VolumeDown(ctx context.Context) error
}

// invoke calls the capability that matches k.
func invoke(ctx context.Context, ctrl Controller, k gesture.Kind) error {
	switch k {
	case gesture.Next:
		return ctrl.Next(ctx)
	case gesture.Previous:
		return ctrl.Previous(ctx)
	case gesture.PlayPause:
		return ctrl.PlayPause(ctx)
	case gesture.VolumeUp:
		return ctrl.VolumeUp(ctx)
	case gesture.VolumeDown:
		return ctrl.VolumeDown(ctx)
	default:
		return fmt.Errorf("no capability for gesture %q", k)
	}
}
