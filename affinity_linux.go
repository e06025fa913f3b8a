//go:build linux

package workerpool

import (
	"golang.org/x/sys/unix"
)

// pinToCPU binds the calling OS thread to a single CPU.
//
// Grounded on the teacher corpus's affinity.go PinToCPU, unchanged.
func pinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
