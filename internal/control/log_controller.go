package control

import (
	"context"
	"log"
)

// LogController only logs each command. It stands in when no media plugin
// is installed.
type LogController struct{}

func (LogController) Next(context.Context) error       { return logCommand("next song") }
func (LogController) Previous(context.Context) error   { return logCommand("previous song") }
func (LogController) PlayPause(context.Context) error  { return logCommand("play/pause") }
func (LogController) VolumeUp(context.Context) error   { return logCommand("volume up") }
func (LogController) VolumeDown(context.Context) error { return logCommand("volume down") }

func logCommand(what string) error {
	log.Printf("media command: %s", what)
	return nil
}
