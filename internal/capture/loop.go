package capture

import (
	"time"

	"go.uber.org/zap"

	"github.com/posekit/posestream/internal/infrastructure/monitoring"
	"github.com/posekit/posestream/internal/lifecycle"
	"github.com/posekit/posestream/internal/pose"
)

// Loop drives a Source at a target rate, runs the estimator on every
// frame, and publishes the result to the mailbox. It owns the only writer
// side of the mailbox and runs on a dedicated goroutine because Produce
// may block on hardware I/O.
type Loop struct {
	source    Source
	estimator Estimator
	mailbox   *pose.Mailbox
	stop      *lifecycle.Stop
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	interval  time.Duration
}

// NewLoop creates a capture loop targeting the given iteration rate.
func NewLoop(source Source, estimator Estimator, mailbox *pose.Mailbox, stop *lifecycle.Stop, logger *zap.Logger, targetFPS float64) *Loop {
	if targetFPS <= 0 {
		targetFPS = 30
	}
	return &Loop{
		source:    source,
		estimator: estimator,
		mailbox:   mailbox,
		stop:      stop,
		logger:    logger,
		interval:  time.Duration(float64(time.Second) / targetFPS),
	}
}

// WithMetrics attaches a metrics collector.
func (l *Loop) WithMetrics(m *monitoring.Metrics) *Loop {
	l.metrics = m
	return l
}

// Run iterates until the stop signal trips or the source fails. A source
// failure is fatal: the loop trips the stop signal itself and returns the
// error, so the rest of the process tears down too. The source is closed
// on the way out in either case.
func (l *Loop) Run() error {
	defer l.source.Close()

	l.logger.Info("capture loop started", zap.Duration("interval", l.interval))

	prev := time.Now()
	for !l.stop.Tripped() {
		begin := time.Now()

		frame, err := l.source.Produce()
		if err != nil {
			l.logger.Error("capture source failed, stopping", zap.Error(err))
			l.stop.Trip()
			return err
		}

		now := time.Now()
		rate := 1.0 / max(1e-4, now.Sub(prev).Seconds())
		prev = now

		detections := l.estimator.Estimate(frame)
		l.mailbox.Put(l.buildSnapshot(frame, detections, now, rate))

		if l.metrics != nil {
			l.metrics.RecordFrame(rate, detections != nil)
		}

		l.pace(time.Since(begin))
	}

	l.logger.Info("capture loop stopped")
	return nil
}

// buildSnapshot converts estimator output into an immutable snapshot. A
// nil detection set still produces a snapshot (fresh timestamp and rate,
// nil landmarks) so the mailbox always reflects the latest cycle.
func (l *Loop) buildSnapshot(frame Frame, detections []Detection, now time.Time, rate float64) *pose.Snapshot {
	snap := &pose.Snapshot{
		Timestamp: now,
		ImageW:    frame.Width,
		ImageH:    frame.Height,
		Rate:      rate,
	}
	if detections == nil {
		return snap
	}

	landmarks := make([]pose.Landmark, len(detections))
	for i, d := range detections {
		vis := d.Visibility
		landmarks[i] = pose.Landmark{
			ID:         i,
			X:          d.X,
			Y:          d.Y,
			Z:          d.Z,
			Visibility: &vis,
		}
	}
	snap.Landmarks = landmarks
	snap.MidHipZ = pose.MidHipDepth(landmarks)
	return snap
}

// pace sleeps out the remainder of the iteration budget. Overruns get no
// sleep and no catch-up debt; the next iteration starts immediately.
func (l *Loop) pace(elapsed time.Duration) {
	remaining := l.interval - elapsed
	if remaining <= 0 {
		if l.metrics != nil {
			l.metrics.CaptureOverruns.Inc()
		}
		return
	}
	select {
	case <-l.stop.Done():
	case <-time.After(remaining):
	}
}
