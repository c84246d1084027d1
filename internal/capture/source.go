// Package capture runs the producer side of the pipeline: a frame source
// driven at a target rate, an estimator, and snapshot publication into
// the mailbox.
package capture

import "fmt"

// Frame is one raw capture from a source, sized in pixels. The pixel data
// itself never crosses the core boundary; the estimator consumes it and
// the core only needs the dimensions.
type Frame struct {
	Width  int
	Height int
	Seq    uint64
	Pixels []byte
}

// Source produces raw frames. Produce may block on hardware I/O, which is
// why the capture loop runs on its own goroutine. A SourceError is fatal
// to the loop.
type Source interface {
	Produce() (Frame, error)
	Close() error
}

// Estimator turns a raw frame into a landmark set. A nil result means no
// detection this cycle and is a normal outcome, not an error.
type Estimator interface {
	Estimate(Frame) []Detection
}

// Detection is one estimated landmark in normalized coordinates, before
// conversion to the wire shape.
type Detection struct {
	X          float64
	Y          float64
	Z          float64
	Visibility float64
}

// SourceError indicates the underlying device is unavailable or a read
// failed. The capture loop treats it as unrecoverable.
type SourceError struct {
	Device string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("capture source %q: %v", e.Device, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
