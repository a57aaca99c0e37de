package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestExtendedFingers(t *testing.T) {
	tests := []struct {
		name string
		want [5]bool
	}{
		{"fist", [5]bool{}},
		{"open palm", [5]bool{true, true, true, true, true}},
		{"thumb only", [5]bool{true, false, false, false, false}},
		{"four without thumb", [5]bool{false, true, true, true, true}},
		{"three middle", [5]bool{false, true, true, true, false}},
		{"pinky only", [5]bool{false, false, false, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtendedFingers(PoseLandmarks(tt.want))
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtendedFingers_ThumbUsesX(t *testing.T) {
	h := FistLandmarks()

	// Thumb tip above the IP joint but to its right stays curled.
	h.Points[ThumbTip] = Point3D{X: h.Points[ThumbIP].X + 0.05, Y: 0.1}
	if ExtendedFingers(h)[0] {
		t.Error("expected thumb curled when tip is right of IP")
	}

	h.Points[ThumbTip].X = h.Points[ThumbIP].X - 0.01
	if !ExtendedFingers(h)[0] {
		t.Error("expected thumb extended when tip is left of IP")
	}
}

func TestExtendedFingers_EqualIsCurled(t *testing.T) {
	h := OpenPalmLandmarks()
	h.Points[IndexTip].Y = h.Points[IndexPIP].Y
	if ExtendedFingers(h)[1] {
		t.Error("expected index curled when tip level with PIP")
	}
}

func TestPrimary(t *testing.T) {
	if _, ok := Primary(nil); ok {
		t.Error("expected no primary hand for empty slice")
	}

	first := ThumbsUpLandmarks()
	first.Handedness = "Left"
	h, ok := Primary([]HandLandmarks{first, OpenPalmLandmarks()})
	if !ok || h.Handedness != "Left" {
		t.Errorf("expected first hand, got %+v", h)
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	hands, err := m.Detect(nil)
	if err != nil || len(hands) != 0 {
		t.Fatalf("expected no hands, got %d (%v)", len(hands), err)
	}

	m.SetHands([]HandLandmarks{OpenPalmLandmarks()})
	hands, _ = m.Detect(nil)
	if len(hands) != 1 {
		t.Errorf("expected 1 hand, got %d", len(hands))
	}

	m.SetError(errors.New("boom"))
	if _, err := m.Detect(nil); err == nil {
		t.Error("expected error")
	}
	if m.Calls() != 3 {
		t.Errorf("expected 3 calls, got %d", m.Calls())
	}
}

func TestDefaultConfig_Args(t *testing.T) {
	args := strings.Join(DefaultConfig().Args(), " ")
	want := "--max-hands 1 --min-detection-confidence 0.8 --min-tracking-confidence 0.8"
	if args != want {
		t.Errorf("expected %q, got %q", want, args)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, []byte("jpeg")); err != nil {
		t.Fatal(err)
	}

	out := buf.Bytes()
	if n := binary.BigEndian.Uint32(out[:4]); n != 4 {
		t.Errorf("expected length prefix 4, got %d", n)
	}
	if string(out[4:]) != "jpeg" {
		t.Errorf("expected payload 'jpeg', got %q", out[4:])
	}
}

func TestReadHands(t *testing.T) {
	t.Run("hands", func(t *testing.T) {
		line := `{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0.3}],"handedness":"Right","score":0.9}]}` + "\n"
		hands, err := readHands(bufio.NewReader(strings.NewReader(line)))
		if err != nil {
			t.Fatal(err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Points[Wrist].Y != 0.2 || hands[0].Handedness != "Right" {
			t.Errorf("unexpected hand %+v", hands[0])
		}
	})

	t.Run("empty", func(t *testing.T) {
		hands, err := readHands(bufio.NewReader(strings.NewReader(`{"hands":[]}` + "\n")))
		if err != nil || len(hands) != 0 {
			t.Errorf("expected no hands, got %d (%v)", len(hands), err)
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := readHands(bufio.NewReader(strings.NewReader(`{"error":"model load failed"}` + "\n")))
		if err == nil || !strings.Contains(err.Error(), "model load failed") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader("nope\n"))); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("closed", func(t *testing.T) {
		if _, err := readHands(bufio.NewReader(strings.NewReader(""))); err == nil {
			t.Error("expected read error")
		}
	})
}
