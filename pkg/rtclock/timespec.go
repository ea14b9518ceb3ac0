// Package rtclock provides the monotonic clock and nanosleep primitives the
// rest of RPOS is built on: a Timespec value type and GetTimeNow/Nanosleep
// functions that route either to the OS monotonic clock or, when built with
// the rpos_lockstep tag, to the virtual clock in pkg/lockstep.
package rtclock

// Timespec is a monotonic instant expressed as seconds and nanoseconds. The
// arithmetic helpers (AddNanos, Add) always return a value rebuilt by
// FromNano, so their results are normalized. Callers compare instants via
// ToNano, not by comparing Sec/Nsec pairs directly.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// ToNano returns the instant as a total nanosecond count.
func (t Timespec) ToNano() int64 {
	return t.Sec*1_000_000_000 + t.Nsec
}

// FromNano builds a Timespec from a total nanosecond count.
func FromNano(ns int64) Timespec {
	return Timespec{Sec: ns / 1_000_000_000, Nsec: ns % 1_000_000_000}
}

// AddNanos returns t advanced by ns nanoseconds (ns may be negative). The
// result is normalized through FromNano; use ToNano for comparisons.
func (t Timespec) AddNanos(ns int64) Timespec {
	return FromNano(t.ToNano() + ns)
}

// Add returns t + other, compared via total nanoseconds.
func (t Timespec) Add(other Timespec) Timespec {
	return FromNano(t.ToNano() + other.ToNano())
}

// Sub returns (t - other) as a signed nanosecond duration.
func (t Timespec) Sub(other Timespec) int64 {
	return t.ToNano() - other.ToNano()
}

// Before reports whether t is strictly earlier than other.
func (t Timespec) Before(other Timespec) bool {
	return t.ToNano() < other.ToNano()
}

// After reports whether t is strictly later than other.
func (t Timespec) After(other Timespec) bool {
	return t.ToNano() > other.ToNano()
}

// DurationOneMS is the HRT worker's maximum poll interval, in nanoseconds.
const DurationOneMS int64 = 1_000_000

// MaxNanosleepArg is the largest single nanosleep argument the sleep
// primitive accepts, matching the original design's single-second constraint.
const MaxNanosleepArg int64 = 999_999_999
