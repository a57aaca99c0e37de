package capture

import (
	"errors"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "zero values",
			in:   Config{Device: 1},
			want: Config{Device: 1, Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		},
		{
			name: "explicit mode",
			in:   Config{Device: 2, Width: 640, Height: 480, FPS: 30, Mirror: true},
			want: Config{Device: 2, Width: 640, Height: 480, FPS: 30, Mirror: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.in)
			impl, ok := cam.(*cameraImpl)
			if !ok {
				t.Fatalf("unexpected camera type %T", cam)
			}
			if impl.config != tt.want {
				t.Errorf("expected config %+v, got %+v", tt.want, impl.config)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Width != 1280 || c.Height != 720 || c.FPS != 60 || !c.Mirror {
		t.Errorf("unexpected default config %+v", c)
	}
}

func TestCamera_ReadWithoutOpen(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on closed camera error = %v", err)
	}
}

func TestMirror(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 2, 3, gocv.MatTypeCV8U)
	defer frame.Close()
	frame.SetUCharAt(0, 0, 200)

	Mirror(&frame)

	if got := frame.GetUCharAt(0, 2); got != 200 {
		t.Errorf("expected pixel moved to last column, got %d", got)
	}
	if got := frame.GetUCharAt(0, 0); got != 0 {
		t.Errorf("expected first column cleared, got %d", got)
	}
}

func TestSaveFrame(t *testing.T) {
	frame := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := SaveFrame(path, &frame); err != nil {
		t.Fatalf("SaveFrame() error = %v", err)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		t.Error("expected saved image to be readable")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if err := SaveFrame(path, &empty); err == nil {
		t.Error("expected error for empty frame")
	}
}
