package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScriptPlugin writes an executable shell script into dir and returns
// a Plugin pointing at it.
func writeScriptPlugin(t *testing.T, dir, name, script string) *Plugin {
	t.Helper()

	scriptPath := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    []string{"media-next", "media-prev"},
		},
		Path:       dir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "ok-plugin", `#!/bin/sh
cat <<'EOF2'
{"success":true,"data":{"message":"skipped track"}}
EOF2
`)

	req := &Request{
		Action:  "media-next",
		Gesture: "next",
		Params:  json.RawMessage(`{"player":"any"}`),
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]string
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
	if data["message"] != "skipped track" {
		t.Errorf("expected message 'skipped track', got %q", data["message"])
	}
}

func TestExecutor_PassesRequestOnStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	outFile := filepath.Join(dir, "stdin.json")
	plugin := writeScriptPlugin(t, dir, "echo-plugin", `#!/bin/sh
cat > `+outFile+`
echo '{"success":true}'
`)

	executor := NewExecutor(5 * time.Second)
	req := &Request{Action: "media-prev", Gesture: "prev"}
	if _, err := executor.Execute(context.Background(), plugin, req); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	raw, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("failed to read captured stdin: %v", err)
	}

	var got Request
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("plugin received invalid JSON %q: %v", raw, err)
	}
	if got.Action != "media-prev" || got.Gesture != "prev" {
		t.Errorf("unexpected request on stdin: %+v", got)
	}
}

func TestExecutor_ErrorResponse(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"no player running"}'
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, &Request{Action: "media-next"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if response.Success {
		t.Errorf("expected success=false, got true")
	}
	if response.Error != "no player running" {
		t.Errorf("expected error 'no player running', got %q", response.Error)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "slow-plugin", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	executor := NewExecutor(100 * time.Millisecond)
	start := time.Now()
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "media-next"})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestExecutor_ContextCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "slow-plugin", `#!/bin/sh
sleep 10
`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	executor := NewExecutor(5 * time.Second)
	start := time.Now()
	if _, err := executor.Execute(ctx, plugin, &Request{Action: "media-next"}); err == nil {
		t.Fatal("expected error after cancel, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancel took too long: %v", elapsed)
	}
}

func TestExecutor_InvalidJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "invalid-plugin", `#!/bin/sh
echo 'not valid json'
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "media-next"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "parse plugin response") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

func TestExecutor_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	plugin := writeScriptPlugin(t, t.TempDir(), "exit-plugin", `#!/bin/sh
echo "playerctl: command not found" >&2
exit 1
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "media-next"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "command not found") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestNewExecutor_DefaultTimeout(t *testing.T) {
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, got)
	}
	if got := NewExecutor(time.Second).Timeout(); got != time.Second {
		t.Errorf("expected timeout 1s, got %v", got)
	}
}
