package scan

import (
	"fmt"
	"os"

	"github.com/mdutool/mdu/internal/queue"
	"github.com/mdutool/mdu/internal/walker"
)

// Worker repeatedly pulls a task from q, walks it, and reports the result
// back to q, until it dequeues a shutdown sentinel.
type Worker struct {
	id      int
	q       *queue.Queue
	verbose bool
}

// NewWorker creates a worker bound to q.
func NewWorker(id int, q *queue.Queue, verbose bool) *Worker {
	return &Worker{id: id, q: q, verbose: verbose}
}

// Run processes tasks until it dequeues a shutdown sentinel, then returns.
func (w *Worker) Run() {
	if w.verbose {
		fmt.Fprintf(os.Stderr, "[W%d] STARTED\n", w.id)
	}
	for {
		task := w.q.NextTask()
		if task.Kind == queue.KindShutdown {
			w.q.ExecuteShutdown()
			if w.verbose {
				fmt.Fprintf(os.Stderr, "[W%d] SHUTDOWN\n", w.id)
			}
			return
		}

		if w.verbose {
			fmt.Fprintf(os.Stderr, "[W%d] WALK path=%s\n", w.id, task.Path)
		}
		result := walker.Walk(task.Path)
		for _, sub := range result.Subdirs {
			w.q.Enqueue(sub)
		}
		w.q.CompleteTask(result.Blocks, !result.PermissionDenied)
	}
}
