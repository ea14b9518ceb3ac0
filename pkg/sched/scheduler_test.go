package sched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleAfterSleepsApproximatelyRequestedDuration(t *testing.T) {
	h := NewSimple(func(h *Handle) {})
	h.Join()

	start := time.Now()
	h.ScheduleAfter(20_000) // 20ms
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	require.Less(t, elapsed, 200*time.Millisecond)
}

func TestScheduleUntilHonorsPeriodFromLastScheduledTime(t *testing.T) {
	h := NewSimple(func(h *Handle) {})
	h.Join()

	h.ScheduleAfter(1) // establishes a recent LastScheduledTime baseline
	baseline := h.LastScheduledTime()
	start := time.Now()
	h.ScheduleUntil(20_000) // 20ms from the baseline
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, h.LastScheduledTime().Sub(baseline), int64(20*time.Millisecond))
	require.Less(t, elapsed, 200*time.Millisecond)
}

func TestScheduleUntilMissedDeadlineReturnsImmediatelyAndRefreshesLastScheduledTime(t *testing.T) {
	h := NewSimple(func(h *Handle) {})
	h.Join()

	staleTime := h.LastScheduledTime().AddNanos(-int64(time.Second))
	h.setLastScheduledTime(staleTime)

	start := time.Now()
	h.ScheduleUntil(1000) // deadline is already 1 second in the past
	elapsed := time.Since(start)

	require.Less(t, elapsed, 50*time.Millisecond, "a missed deadline must not sleep")
	require.True(t, h.LastScheduledTime().After(staleTime), "LastScheduledTime must be refreshed to now, not left stale")
}

func TestSchedulerTightLoopJitterBudget(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-sensitive loop in short mode")
	}

	monitor := NewJitterMonitor(400)
	var iterations atomic.Int32

	h := New(0, 0, func(h *Handle) {
		for i := 0; i < 50; i++ {
			h.ScheduleUntil(1000) // 1ms period
			monitor.RecordIteration(h)
			iterations.Add(1)
		}
	}, false)
	h.Join()

	require.Equal(t, int32(50), iterations.Load())
	require.Len(t, monitor.Samples(), 50)
	// Generous slack versus the 500us design budget: this test runs under a
	// plain goroutine, not a real SCHED_FIFO thread, so the assertion only
	// checks the monitor captured sane, bounded values rather than holding
	// the library to the FIFO-priority budget outside a real-time build.
	require.Less(t, monitor.Max(), 50*time.Millisecond)
}
