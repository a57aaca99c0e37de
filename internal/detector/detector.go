package detector

import (
	"strconv"

	"gocv.io/x/gocv"
)

// Detector finds hands in a video frame.
type Detector interface {
	// Detect returns the hands found in frame, best first. An empty slice
	// means no hand.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detection thresholds.
type Config struct {
	// MaxHands is the maximum number of hands to report.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig tracks a single hand with strict thresholds.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.8,
		MinTrackingConf: 0.8,
	}
}

// Args renders the config as command-line flags for the hand service.
func (c Config) Args() []string {
	return []string{
		"--max-hands", strconv.Itoa(c.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(c.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(c.MinTrackingConf, 'f', -1, 64),
	}
}
