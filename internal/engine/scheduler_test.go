package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestManualScheduler(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewManualScheduler(clock)

	var fired []TaskKey
	record := func(key TaskKey) func() {
		return func() { fired = append(fired, key) }
	}

	assert.True(t, sched.Schedule(TaskWordAdvance, 1200*time.Millisecond, record(TaskWordAdvance)))
	assert.True(t, sched.Schedule(TaskPerItemAdvance, 500*time.Millisecond, record(TaskPerItemAdvance)))
	assert.False(t, sched.Schedule(TaskWordAdvance, time.Millisecond, record(TaskWordAdvance)))
	assert.True(t, sched.Pending(TaskWordAdvance))

	sched.Advance(time.Second)
	assert.Equal(t, []TaskKey{TaskPerItemAdvance}, fired)
	assert.Equal(t, epoch.Add(time.Second), clock.Now())

	sched.Cancel(TaskWordAdvance)
	assert.False(t, sched.Pending(TaskWordAdvance))
	sched.Advance(time.Second)
	assert.Len(t, fired, 1)
}

func TestManualScheduler_ChainedTasks(t *testing.T) {
	clock := NewManualClock(epoch)
	sched := NewManualScheduler(clock)

	count := 0
	var tick func()
	tick = func() {
		count++
		sched.Schedule(TaskElapsedTick, time.Second, tick)
	}
	sched.Schedule(TaskElapsedTick, time.Second, tick)

	sched.Advance(5 * time.Second)
	assert.Equal(t, 5, count)

	sched.CancelAll()
	sched.Advance(5 * time.Second)
	assert.Equal(t, 5, count)
}

func TestTimerScheduler(t *testing.T) {
	sched := NewTimerScheduler()

	var wg sync.WaitGroup
	wg.Add(1)
	assert.True(t, sched.Schedule(TaskFullSubmit, 50*time.Millisecond, wg.Done))
	assert.False(t, sched.Schedule(TaskFullSubmit, 50*time.Millisecond, func() {}))
	wg.Wait()

	assert.Eventually(t, func() bool { return !sched.Pending(TaskFullSubmit) }, time.Second, 5*time.Millisecond)

	cancelled := make(chan struct{}, 1)
	sched.Schedule(TaskWordAdvance, 20*time.Millisecond, func() { cancelled <- struct{}{} })
	sched.Cancel(TaskWordAdvance)

	select {
	case <-cancelled:
		t.Fatal("cancelled task ran")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{65 * time.Second, "01:05"},
		{10*time.Minute + 7*time.Second, "10:07"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.in), tt.in.String())
	}
}
