package workerpool

import "runtime"

// pinCurrentWorker locks the calling goroutine to its current OS thread
// and, if id names a slot in cpus, pins that thread to that CPU (Linux
// only; see affinity_linux.go/affinity_other.go for pinToCPU).
//
// Grounded on the teacher corpus's PinToCPU (affinity.go), generalized
// from a single fixed-CPU helper into a per-worker lookup so each
// dedicated worker can be pinned independently, matching Config.WorkerCPU.
func pinCurrentWorker(id int, cpus []int) error {
	runtime.LockOSThread()
	if id < 0 || id >= len(cpus) {
		return nil
	}
	return pinToCPU(cpus[id])
}
