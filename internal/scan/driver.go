package scan

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mdutool/mdu/internal/queue"
	"github.com/mdutool/mdu/internal/walker"
)

// Driver runs one or more root scans and reports their block totals.
type Driver struct {
	opts *Options
	q    *queue.Queue
	out  io.Writer
}

// NewDriver creates a Driver. opts.Workers selects sequential (<=1) or
// parallel (>1) mode; out receives the per-root "<blocks>\t<path>\n" lines.
func NewDriver(opts *Options, out io.Writer) *Driver {
	d := &Driver{opts: opts, out: out}
	if opts.Workers > 1 {
		d.q = queue.New(opts.Workers, opts.Verbose)
	}
	return d
}

// Run walks each root in turn, printing its block total, and returns
// whether every directory across every root was readable. A false return
// makes the CLI exit 1.
func (d *Driver) Run(roots []string) bool {
	if d.opts.Workers > 1 {
		return d.runParallel(roots)
	}
	return d.runSequential(roots)
}

func (d *Driver) runSequential(roots []string) bool {
	overallOK := true
	for _, root := range roots {
		blocks, ok := walker.WalkSequential(root)
		if !ok {
			overallOK = false
		}
		fmt.Fprintf(d.out, "%d\t%s\n", blocks, root)
	}
	return overallOK
}

func (d *Driver) runParallel(roots []string) bool {
	for _, root := range roots {
		d.q.Reset()

		var wg sync.WaitGroup
		for i := 0; i < d.opts.Workers; i++ {
			wg.Add(1)
			w := NewWorker(i, d.q, d.opts.Verbose)
			go func() {
				defer wg.Done()
				w.Run()
			}()
		}

		d.q.Enqueue(root)
		wg.Wait()

		if d.opts.Verbose {
			fmt.Fprintf(os.Stderr, "[DRIVER] root=%s blocks=%d\n", root, d.q.BlockSum())
		}
		fmt.Fprintf(d.out, "%d\t%s\n", d.q.BlockSum(), root)
	}
	return d.q.PermissionOK()
}
