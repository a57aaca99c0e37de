package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/pose"
)

// errorLogEvery limits how often repeated acquisition errors are logged.
const errorLogEvery = 100

// CameraSource reads frames from a camera and reduces the first detected
// hand to finger flags. It keeps the latest frame for screenshots.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	now      func() time.Time

	mu       sync.Mutex
	last     *gocv.Mat
	failures int
}

// NewCameraSource creates a CameraSource. Mirroring is done by the camera.
func NewCameraSource(camera capture.Camera, det detector.Detector) *CameraSource {
	return &CameraSource{
		camera:   camera,
		detector: det,
		now:      time.Now,
	}
}

// Open opens the camera.
func (s *CameraSource) Open() error {
	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	return nil
}

// Acquire reads and analyses one frame.
func (s *CameraSource) Acquire() (pose.Sample, bool) {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		s.logError("read frame", err)
		return pose.Sample{}, false
	}
	at := s.now()

	hands, err := s.detector.Detect(frame)
	s.keep(frame)
	if err != nil {
		s.logError("detect hands", err)
		return pose.Sample{}, false
	}

	hand, ok := detector.Primary(hands)
	if !ok {
		return pose.Sample{}, false
	}
	return pose.Sample{Extended: detector.ExtendedFingers(hand), At: at}, true
}

// SaveFrame writes the latest frame to path.
func (s *CameraSource) SaveFrame(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return errors.New("no frame captured yet")
	}
	return capture.SaveFrame(path, s.last)
}

// Close releases the frame, the camera and the detector.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	if s.last != nil {
		s.last.Close()
		s.last = nil
	}
	s.mu.Unlock()

	return errors.Join(s.camera.Close(), s.detector.Close())
}

func (s *CameraSource) keep(frame *gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		s.last.Close()
	}
	s.last = frame
}

func (s *CameraSource) logError(what string, err error) {
	s.mu.Lock()
	n := s.failures
	s.failures++
	s.mu.Unlock()

	if n%errorLogEvery == 0 {
		log.Printf("%s failed (%d so far): %v", what, n+1, err)
	}
}
