//go:build linux

package rtthread

import "golang.org/x/sys/unix"

func gettid() int {
	return unix.Gettid()
}

func setFIFOPriority(priority int) error {
	param := &unix.SchedParam{Priority: int32(priority)}
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, param)
}
