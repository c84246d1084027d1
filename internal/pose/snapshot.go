package pose

import (
	"time"

	"github.com/bytedance/sonic"
)

// Landmark indices used for the derived mid-hip depth, matching the
// MediaPipe pose topology (left hip = 23, right hip = 24).
const (
	LeftHipIndex  = 23
	RightHipIndex = 24
)

// Landmark is one estimated body point in normalized image coordinates.
// X and Y are in [0..1]; Z is relative depth in the same normalized space.
type Landmark struct {
	ID         int      `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
}

// Snapshot is one immutable unit of produced data. A nil Landmarks slice
// means the estimator found nothing this cycle; such snapshots are held in
// the mailbox but never broadcast.
type Snapshot struct {
	Timestamp time.Time
	Landmarks []Landmark
	ImageW    int
	ImageH    int
	MidHipZ   float64
	Rate      float64
}

// HasDetection reports whether this snapshot carries a landmark set.
func (s *Snapshot) HasDetection() bool {
	return s != nil && s.Landmarks != nil
}

// MidHipDepth computes the mean Z of the two hip landmarks, or 0.0 when
// either index is out of range.
func MidHipDepth(landmarks []Landmark) float64 {
	if len(landmarks) <= RightHipIndex {
		return 0.0
	}
	return (landmarks[LeftHipIndex].Z + landmarks[RightHipIndex].Z) / 2.0
}

// payload is the wire shape of a snapshot. Timestamp is seconds since the
// Unix epoch as a float, matching what clients already consume.
type payload struct {
	Timestamp     float64    `json:"timestamp"`
	Landmarks     []Landmark `json:"landmarks"`
	ImageW        int        `json:"image_w"`
	ImageH        int        `json:"image_h"`
	DerivedScalar float64    `json:"derived_scalar"`
	Rate          float64    `json:"instantaneous_rate"`
}

// Marshal serializes the snapshot to its wire payload. Called once per
// broadcast tick, never once per subscriber.
func (s *Snapshot) Marshal() ([]byte, error) {
	return sonic.Marshal(payload{
		Timestamp:     float64(s.Timestamp.UnixNano()) / float64(time.Second),
		Landmarks:     s.Landmarks,
		ImageW:        s.ImageW,
		ImageH:        s.ImageH,
		DerivedScalar: s.MidHipZ,
		Rate:          s.Rate,
	})
}
