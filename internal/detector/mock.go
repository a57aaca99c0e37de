package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector returns preset results. Safe for concurrent use.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a MockDetector that sees no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the preset hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op.
func (m *MockDetector) Close() error {
	return nil
}

// PoseLandmarks builds an upright right hand with the given fingers
// extended, in thumb..pinky order. It satisfies ExtendedFingers.
func PoseLandmarks(extended [5]bool) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Thumb: tip left of IP when extended, right of it when tucked.
	h.Points[ThumbCMC] = Point3D{X: 0.46, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.42, Y: 0.70}
	h.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.64}
	if extended[0] {
		h.Points[ThumbTip] = Point3D{X: 0.33, Y: 0.60}
	} else {
		h.Points[ThumbTip] = Point3D{X: 0.44, Y: 0.62}
	}

	bases := [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	xs := [4]float64{0.44, 0.50, 0.56, 0.61}
	for i, mcp := range bases {
		x := xs[i]
		h.Points[mcp] = Point3D{X: x, Y: 0.66}
		h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
		if extended[i+1] {
			h.Points[mcp+2] = Point3D{X: x, Y: 0.45}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.36}
		} else {
			h.Points[mcp+2] = Point3D{X: x, Y: 0.60, Z: -0.04}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.64, Z: -0.02}
		}
	}
	return h
}

// OpenPalmLandmarks returns a hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{true, true, true, true, true})
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{})
}

// ThumbsUpLandmarks returns a hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{true, false, false, false, false})
}
