package profile

// Profiler selects a profiling mode and where its output is written.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log messages
}

// Start starts the profiler and returns a handle for stopping it.
//
// If the binary was built without the pprof tag, or Mode is empty or unknown,
// Start returns a no-op handle. Stop is always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
