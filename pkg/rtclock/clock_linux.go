//go:build linux && !rpos_lockstep

package rtclock

import (
	"golang.org/x/sys/unix"
)

// GetTimeNow returns the current instant from CLOCK_MONOTONIC.
func GetTimeNow() Timespec {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic("rtclock: clock_gettime failed: " + err.Error())
	}
	return Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}
}

// Nanosleep sleeps at least ns nanoseconds (0 <= ns <= MaxNanosleepArg),
// returning the unslept residual on an EINTR spurious wake.
func Nanosleep(ns int64) int64 {
	if ns < 0 || ns > MaxNanosleepArg {
		panic("rtclock: nanosleep argument out of range")
	}

	req := unix.NsecToTimespec(ns)
	var rem unix.Timespec
	for {
		err := unix.Nanosleep(&req, &rem)
		if err == nil {
			return 0
		}
		if err == unix.EINTR {
			return unix.TimespecToNsec(rem)
		}
		panic("rtclock: nanosleep failed: " + err.Error())
	}
}
