package scan

// Options configures a Driver run.
type Options struct {
	// Workers is the number of concurrent directory walkers. A value of
	// 1 runs the sequential walker instead of spinning up the queue.
	Workers int

	// Verbose gates the [Q]/[W%d]/[DRIVER]-tagged diagnostic tracing.
	Verbose bool
}

// DefaultOptions returns sensible defaults for a scan.
func DefaultOptions() *Options {
	return &Options{
		Workers: 1,
		Verbose: false,
	}
}

// WithWorkers sets the worker count.
func (o *Options) WithWorkers(n int) *Options {
	o.Workers = n
	return o
}

// WithVerbose sets verbose diagnostic tracing.
func (o *Options) WithVerbose(v bool) *Options {
	o.Verbose = v
	return o
}
