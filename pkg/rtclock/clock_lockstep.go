//go:build rpos_lockstep

package rtclock

import "github.com/ncerzzk/rpos-go/pkg/lockstep"

// GetTimeNow returns the virtual clock's current instant instead of the OS
// monotonic clock, when built with the rpos_lockstep tag.
func GetTimeNow() Timespec {
	ts := lockstep.CurrentTime()
	return Timespec{Sec: ts.Sec, Nsec: ts.Nsec}
}

// Nanosleep routes to the virtual clock's condition-variable-based sleep
// instead of the OS nanosleep, when built with the rpos_lockstep tag.
func Nanosleep(ns int64) int64 {
	if ns < 0 || ns > MaxNanosleepArg {
		panic("rtclock: nanosleep argument out of range")
	}
	return lockstep.Nanosleep(ns)
}
