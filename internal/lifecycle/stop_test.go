package lifecycle

import (
	"sync"
	"testing"
	"time"
)

func TestStopInitiallyUntripped(t *testing.T) {
	s := NewStop()

	if s.Tripped() {
		t.Error("new stop signal should not be tripped")
	}

	select {
	case <-s.Done():
		t.Error("Done channel should not be closed before Trip")
	default:
	}
}

func TestTripIsObservable(t *testing.T) {
	s := NewStop()
	s.Trip()

	if !s.Tripped() {
		t.Error("Tripped should report true after Trip")
	}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Error("Done channel should be closed after Trip")
	}
}

func TestTripIsIdempotentUnderConcurrency(t *testing.T) {
	s := NewStop()

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Trip()
		}()
	}
	wg.Wait()

	if !s.Tripped() {
		t.Error("signal should be tripped")
	}
}
