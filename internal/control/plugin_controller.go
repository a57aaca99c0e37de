package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/plugin"
)

// Plugin action names for each capability.
const (
	ActionNext       = "media-next"
	ActionPrevious   = "media-prev"
	ActionPlayPause  = "media-play-pause"
	ActionVolumeUp   = "volume-up"
	ActionVolumeDown = "volume-down"
)

// ActionFor returns the plugin action name for k.
func ActionFor(k gesture.Kind) string {
	switch k {
	case gesture.Next:
		return ActionNext
	case gesture.Previous:
		return ActionPrevious
	case gesture.PlayPause:
		return ActionPlayPause
	case gesture.VolumeUp:
		return ActionVolumeUp
	case gesture.VolumeDown:
		return ActionVolumeDown
	}
	return ""
}

// PluginController runs a media plugin for every capability.
type PluginController struct {
	executor *plugin.Executor
	plugin   *plugin.Plugin
	step     int
}

// NewPluginController looks up name in mgr. step is passed to the plugin
// as the volume change in percent.
func NewPluginController(mgr *plugin.Manager, name string, executor *plugin.Executor, step int) (*PluginController, error) {
	p, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("media plugin %q: %w", name, err)
	}
	for _, k := range gesture.Kinds {
		if !p.Manifest.Supports(ActionFor(k)) {
			return nil, fmt.Errorf("media plugin %q does not support %s", name, ActionFor(k))
		}
	}
	return &PluginController{executor: executor, plugin: p, step: step}, nil
}

func (c *PluginController) Next(ctx context.Context) error {
	return c.run(ctx, gesture.Next)
}

func (c *PluginController) Previous(ctx context.Context) error {
	return c.run(ctx, gesture.Previous)
}

func (c *PluginController) PlayPause(ctx context.Context) error {
	return c.run(ctx, gesture.PlayPause)
}

func (c *PluginController) VolumeUp(ctx context.Context) error {
	return c.run(ctx, gesture.VolumeUp)
}

func (c *PluginController) VolumeDown(ctx context.Context) error {
	return c.run(ctx, gesture.VolumeDown)
}

func (c *PluginController) run(ctx context.Context, k gesture.Kind) error {
	req := &plugin.Request{
		Action:  ActionFor(k),
		Gesture: k.String(),
	}
	if k.Regime() == gesture.LevelTriggered && c.step > 0 {
		params, err := json.Marshal(map[string]int{"step": c.step})
		if err != nil {
			return err
		}
		req.Params = params
	}

	resp, err := c.executor.Execute(ctx, c.plugin, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return errors.New("plugin reported failure")
		}
		return errors.New(resp.Error)
	}
	return nil
}
