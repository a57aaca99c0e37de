// Package main is the media-keys plugin. It presses the system media keys
// and nudges the output volume, using AppleScript on macOS and
// playerctl/pactl on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Request is read from stdin.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Params  json.RawMessage `json:"params"`
}

// Response is written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// volumeParams carries the optional step for volume actions.
type volumeParams struct {
	Step int `json:"step"`
}

const defaultStep = 8

type actionHandler func(step int) error

type platform struct {
	handlers map[string]actionHandler
}

var platforms = map[string]platform{
	"darwin": {handlers: map[string]actionHandler{
		"media-play-pause": func(int) error { return mediaKey(100) },
		"media-next":       func(int) error { return mediaKey(101) },
		"media-prev":       func(int) error { return mediaKey(98) },
		"volume-up":        func(step int) error { return osVolume(step) },
		"volume-down":      func(step int) error { return osVolume(-step) },
	}},
	"linux": {handlers: map[string]actionHandler{
		"media-play-pause": func(int) error { return run("playerctl", "play-pause") },
		"media-next":       func(int) error { return run("playerctl", "next") },
		"media-prev":       func(int) error { return run("playerctl", "previous") },
		"volume-up": func(step int) error {
			return run("pactl", "set-sink-volume", "@DEFAULT_SINK@", "+"+strconv.Itoa(step)+"%")
		},
		"volume-down": func(step int) error {
			return run("pactl", "set-sink-volume", "@DEFAULT_SINK@", "-"+strconv.Itoa(step)+"%")
		},
	}},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	p, ok := platforms[runtime.GOOS]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unsupported platform: %s", runtime.GOOS))
		return
	}

	handler, ok := p.handlers[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	params := volumeParams{Step: defaultStep}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid params: %v", err))
			return
		}
		if params.Step <= 0 {
			params.Step = defaultStep
		}
	}

	if err := handler(params.Step); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func runAppleScript(script string) error {
	return run("osascript", "-e", script)
}

// mediaKey presses a media key by its System Events key code.
func mediaKey(code int) error {
	return runAppleScript(fmt.Sprintf(`tell application "System Events"
	key code %d
end tell`, code))
}

// osVolume shifts the output volume by delta percent.
func osVolume(delta int) error {
	return runAppleScript(fmt.Sprintf(
		`set volume output volume ((output volume of (get volume settings)) + (%d))`, delta))
}
