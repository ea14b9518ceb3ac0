//go:build !linux

package rtthread

import "fmt"

func gettid() int {
	return 0
}

func setFIFOPriority(priority int) error {
	return fmt.Errorf("%w: SCHED_FIFO is not supported on this platform", errInsufficientPrivilege)
}
