//go:build !linux

package workerpool

import "errors"

// pinToCPU is unsupported outside Linux; Config.PinWorkers still locks
// the goroutine to its OS thread (see pinCurrentWorker) but cannot pin
// that thread to a specific CPU without a platform-specific syscall.
func pinToCPU(int) error {
	return errors.New("workerpool: CPU pinning is only supported on linux")
}
