package broadcast

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/posekit/posestream/internal/infrastructure/monitoring"
	"github.com/posekit/posestream/internal/lifecycle"
	"github.com/posekit/posestream/internal/pose"
)

// Loop reads the mailbox at a fixed tick rate and fans the latest
// snapshot out to every registered subscriber. Ticks with an empty
// mailbox or a no-detection snapshot send nothing at all; absence of a
// pose is not broadcast as an empty message.
type Loop struct {
	mailbox  *pose.Mailbox
	registry *Registry
	stop     *lifecycle.Stop
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	interval time.Duration
}

// NewLoop creates a broadcast loop targeting the given tick rate.
func NewLoop(mailbox *pose.Mailbox, registry *Registry, stop *lifecycle.Stop, logger *zap.Logger, targetFPS float64) *Loop {
	if targetFPS <= 0 {
		targetFPS = 30
	}
	return &Loop{
		mailbox:  mailbox,
		registry: registry,
		stop:     stop,
		logger:   logger,
		interval: time.Duration(float64(time.Second) / targetFPS),
	}
}

// WithMetrics attaches a metrics collector.
func (l *Loop) WithMetrics(m *monitoring.Metrics) *Loop {
	l.metrics = m
	return l
}

// Run ticks until the stop signal trips. Each tick observes whatever the
// mailbox holds at that moment; if the producer wrote several snapshots
// since the last tick, only the latest survives and is delivered.
func (l *Loop) Run() {
	l.logger.Info("broadcast loop started", zap.Duration("interval", l.interval))

	for !l.stop.Tripped() {
		begin := time.Now()
		sends, bytes, idle := l.tick()
		if l.metrics != nil {
			l.metrics.RecordTick(time.Since(begin), bytes, sends, idle)
		}
		l.pace(time.Since(begin))
	}

	l.logger.Info("broadcast loop stopped")
}

// tick performs one read-serialize-fanout cycle and reports what it did.
func (l *Loop) tick() (sends, bytes int, idle bool) {
	snap := l.mailbox.Peek()
	if !snap.HasDetection() {
		return 0, 0, true
	}

	// Serialize once per tick, never once per subscriber.
	payload, err := snap.Marshal()
	if err != nil {
		l.logger.Error("snapshot serialization failed", zap.Error(err))
		return 0, 0, true
	}

	subs := l.registry.List()
	if len(subs) == 0 {
		return 0, len(payload), false
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *Subscriber) {
			defer wg.Done()
			l.dispatch(sub, payload)
		}(sub)
	}
	wg.Wait()

	return len(subs), len(payload), false
}

// dispatch sends one payload to one subscriber. A failure is isolated:
// the subscriber is logged, removed, and closed, and nothing else in the
// fan-out notices.
func (l *Loop) dispatch(sub *Subscriber, payload []byte) {
	err := sub.Send(payload)
	if err == nil {
		return
	}

	l.logger.Warn("dropping subscriber after failed send",
		zap.String("subscriber", sub.ID),
		zap.String("remote", sub.Remote),
		zap.Error(err),
	)
	l.registry.Remove(sub.ID)
	sub.Close()
	if l.metrics != nil {
		l.metrics.SendErrors.Inc()
	}
}

// pace sleeps out the remainder of the tick budget, same elapsed-time
// compensation as the capture loop. Overrunning ticks roll straight into
// the next one.
func (l *Loop) pace(elapsed time.Duration) {
	remaining := l.interval - elapsed
	if remaining <= 0 {
		return
	}
	select {
	case <-l.stop.Done():
	case <-time.After(remaining):
	}
}
