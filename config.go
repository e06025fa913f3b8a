package workerpool

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWorkers mirrors GOMAXPROCS when Config.Workers is unset.
	DefaultWorkers         = 0 // sentinel; FillDefaults resolves via GOMAXPROCS
	defaultPollInterval    = time.Millisecond
	defaultMaxBackoffSteps = 10
)

// Config configures a Pool. All zero values are replaced with sensible
// defaults by FillDefaults, following the teacher's Options.FillDefaults
// pattern.
type Config struct {
	// Workers is the number of dedicated workers, each with its own
	// TaskQueue and goroutine. Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// SharedWorkers is the number of shared (threadless) queues other
	// workers drain cooperatively. Zero disables load balancing and
	// work stealing entirely.
	SharedWorkers int

	// LoadBalanceShared selects the work-selection policy: when true,
	// every dedicated worker polls GrabOneFromAny and never blocks;
	// when false, a worker blocks on its EmptySignal and consults
	// GrabOne (see workStealer in stealer.go).
	LoadBalanceShared bool

	// PollInterval is the base polling interval used by BackoffTimer
	// in load-balanced mode. Must be at least 1ms; smaller values are
	// clamped up.
	PollInterval time.Duration

	// BackoffPolicy selects how PollInterval ramps between empty scans.
	BackoffPolicy BackoffPolicy

	// MaxBackoffSteps caps how many rounds BackoffTimer will ramp
	// before saturating.
	MaxBackoffSteps int

	// StealFromAllShared makes the non-load-balanced GrabOne path scan
	// every shared queue instead of only the primary one (index 0).
	// Defaults to false, matching the original source's observed
	// behavior (spec.md §9 Open Questions).
	StealFromAllShared bool

	// PinWorkers locks each dedicated worker's goroutine to its own OS
	// thread, on every platform.
	PinWorkers bool

	// WorkerCPU optionally pins worker i's OS thread to CPU
	// WorkerCPU[i] when PinWorkers is set and i is in range. On
	// non-Linux platforms no CPU is pinned and the attempt is reported
	// as an error via OnInternalError.
	WorkerCPU []int

	// OnInternalError, if set, is called for pool-internal failures
	// that are not attributable to any single task (e.g. a worker
	// failing to apply CPU affinity).
	OnInternalError func(error)

	// Logger receives pool and worker lifecycle events (construction,
	// shutdown, task panics). Defaults to a no-op logger so a caller
	// that does not care about logging pays nothing for it.
	Logger *zap.Logger
}

// FillDefaults mutates zero-valued fields of c to their defaults.
func (c *Config) FillDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.SharedWorkers < 0 {
		c.SharedWorkers = 0
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxBackoffSteps <= 0 {
		c.MaxBackoffSteps = defaultMaxBackoffSteps
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
