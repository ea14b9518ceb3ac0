package sched

import (
	"sync"
	"time"

	"github.com/ncerzzk/rpos-go/pkg/common"
)

// JitterMonitor records a capped ring buffer of per-iteration scheduling
// latencies — the gap between a ScheduleUntil call's deadline and the instant
// it actually returned — so the <500µs jitter budget the design asserts at
// priority 98 can be measured and introspected, rather than only checked
// once inside a test. Adapted from the teacher's SystemMonitor latency
// sample ring buffer (cmd/broker/sched/monitor.go).
type JitterMonitor struct {
	mu       sync.Mutex
	samples  []time.Duration
	capacity int
}

// NewJitterMonitor creates a monitor holding up to capacity samples; once
// full, the oldest sample is dropped on each new Record.
func NewJitterMonitor(capacity int) *JitterMonitor {
	if capacity <= 0 {
		capacity = common.DefaultJitterSamples
	}
	return &JitterMonitor{capacity: capacity}
}

// Record appends a latency sample, evicting the oldest sample if full.
func (m *JitterMonitor) Record(latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) >= m.capacity {
		m.samples = m.samples[1:]
	}
	m.samples = append(m.samples, latency)
}

// RecordIteration measures the jitter of one Handle iteration: the elapsed
// time between this Handle's Deadline and its LastScheduledTime, the same
// quantity the testable property in SPEC_FULL.md §8 asserts stays under the
// budget.
func (m *JitterMonitor) RecordIteration(h *Handle) time.Duration {
	latency := time.Duration(h.LastScheduledTime().Sub(h.Deadline()))
	m.Record(latency)
	return latency
}

// Samples returns a copy of the currently retained latency samples, oldest first.
func (m *JitterMonitor) Samples() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.samples))
	copy(out, m.samples)
	return out
}

// Average returns the mean of the retained samples, or 0 if none have been recorded.
func (m *JitterMonitor) Average() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range m.samples {
		sum += s
	}
	return sum / time.Duration(len(m.samples))
}

// Max returns the largest retained sample, or 0 if none have been recorded.
func (m *JitterMonitor) Max() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max time.Duration
	for _, s := range m.samples {
		if s > max {
			max = s
		}
	}
	return max
}

// WithinBudget reports whether every retained sample is within budget.
func (m *JitterMonitor) WithinBudget(budget time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.samples {
		if s > budget || s < -budget {
			return false
		}
	}
	return true
}
