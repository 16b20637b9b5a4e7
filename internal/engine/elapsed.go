package engine

import (
	"fmt"
	"time"
)

// elapsedTracker measures wall-clock time from name confirmation to submission
type elapsedTracker struct {
	startedAt time.Time
	started   bool
	final     time.Duration
	stopped   bool
}

func (t *elapsedTracker) start(now time.Time) {
	if t.started {
		return
	}
	t.startedAt = now
	t.started = true
}

func (t *elapsedTracker) elapsed(now time.Time) time.Duration {
	switch {
	case !t.started:
		return 0
	case t.stopped:
		return t.final
	}
	if d := now.Sub(t.startedAt); d > 0 {
		return d
	}
	return 0
}

func (t *elapsedTracker) stop(now time.Time) time.Duration {
	if !t.stopped {
		t.final = t.elapsed(now)
		t.stopped = true
	}
	return t.final
}

// FormatElapsed renders a duration as MM:SS with second granularity
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
