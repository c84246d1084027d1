package capture

import (
	"math"
	"sync/atomic"
)

// LandmarkCount is the size of the pose topology the estimator emits,
// matching the 33-point MediaPipe skeleton.
const LandmarkCount = 33

// SyntheticSource produces empty frames of a fixed size, standing in for
// a camera during development and tests. Produce never fails unless the
// source has been closed.
type SyntheticSource struct {
	width  int
	height int
	seq    atomic.Uint64
	closed atomic.Bool
}

// NewSyntheticSource creates a synthetic source with the given frame size.
func NewSyntheticSource(width, height int) *SyntheticSource {
	return &SyntheticSource{width: width, height: height}
}

func (s *SyntheticSource) Produce() (Frame, error) {
	if s.closed.Load() {
		return Frame{}, &SourceError{Device: "synthetic", Err: errClosed}
	}
	return Frame{
		Width:  s.width,
		Height: s.height,
		Seq:    s.seq.Add(1),
	}, nil
}

func (s *SyntheticSource) Close() error {
	s.closed.Store(true)
	return nil
}

var errClosed = errSourceClosed{}

type errSourceClosed struct{}

func (errSourceClosed) Error() string { return "source closed" }

// SyntheticEstimator emits a deterministic wandering skeleton keyed off
// the frame sequence number. DropoutEvery > 0 makes every Nth frame a
// no-detection cycle, exercising the idle-tick path downstream.
type SyntheticEstimator struct {
	DropoutEvery uint64
}

func (e *SyntheticEstimator) Estimate(frame Frame) []Detection {
	if e.DropoutEvery > 0 && frame.Seq%e.DropoutEvery == 0 {
		return nil
	}

	phase := float64(frame.Seq) * 0.05
	detections := make([]Detection, LandmarkCount)
	for i := range detections {
		offset := float64(i) / LandmarkCount
		detections[i] = Detection{
			X:          0.5 + 0.25*math.Sin(phase+offset*2*math.Pi),
			Y:          0.5 + 0.25*math.Cos(phase+offset*2*math.Pi),
			Z:          -0.3 + 0.1*math.Sin(phase*0.5+offset),
			Visibility: 0.9,
		}
	}
	return detections
}
