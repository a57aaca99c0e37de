package main

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/config"
	"github.com/ayusman/gesturectl/internal/detector"
)

// demoPoseDuration is how long the simulated hand holds each pose.
const demoPoseDuration = 2 * time.Second

// newSource builds the webcam source, or a simulated one with mock set.
func newSource(cfg *config.Config, mock bool) (app.SampleSource, error) {
	if mock {
		return newDemoSource(cfg.Camera), nil
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("hand detector: %w", err)
	}

	cam := capture.NewCamera(capture.Config{
		Device: cfg.Camera.Device,
		Width:  cfg.Camera.Width,
		Height: cfg.Camera.Height,
		FPS:    cfg.Camera.FPS,
		Mirror: cfg.Camera.Mirror,
	})
	return app.NewCameraSource(cam, det), nil
}

// pointing matches no actionable pose.
var pointing = detector.PoseLandmarks([5]bool{false, true, false, false, false})

// demoScript is the simulated hand: every pose with a rest in between.
// A nil step means the hand has left the frame.
var demoScript = []*detector.HandLandmarks{
	ptr(detector.OpenPalmLandmarks()),
	&pointing,
	ptr(detector.FistLandmarks()),
	&pointing,
	ptr(detector.ThumbsUpLandmarks()),
	&pointing,
	ptr(detector.PoseLandmarks([5]bool{false, true, true, true, true})),
	&pointing,
	ptr(detector.PoseLandmarks([5]bool{false, true, true, true, false})),
	nil,
}

func ptr(h detector.HandLandmarks) *detector.HandLandmarks { return &h }

// demoDetector plays demoScript against the clock.
type demoDetector struct {
	*detector.MockDetector
	start time.Time
	now   func() time.Time
}

func (d *demoDetector) Detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	step := int(d.now().Sub(d.start)/demoPoseDuration) % len(demoScript)
	if h := demoScript[step]; h != nil {
		d.SetHands([]detector.HandLandmarks{*h})
	} else {
		d.SetHands(nil)
	}
	return d.MockDetector.Detect(frame)
}

// pacedCamera limits a camera to fps frames per second.
type pacedCamera struct {
	capture.Camera
	interval time.Duration
	next     time.Time
}

func (c *pacedCamera) ReadFrame() (*gocv.Mat, error) {
	if wait := time.Until(c.next); wait > 0 {
		time.Sleep(wait)
	}
	c.next = time.Now().Add(c.interval)
	return c.Camera.ReadFrame()
}

func newDemoSource(cam config.CameraConfig) *app.CameraSource {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), cam.Height, cam.Width, gocv.MatTypeCV8UC3)
	fps := cam.FPS
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	camera := &pacedCamera{
		Camera:   capture.NewMockCamera([]*gocv.Mat{&blank}, true),
		interval: time.Second / time.Duration(fps),
	}
	det := &demoDetector{
		MockDetector: detector.NewMockDetector(),
		start:        time.Now(),
		now:          time.Now,
	}
	return app.NewCameraSource(camera, det)
}
