// Package queue implements the mutex/condvar task queue that coordinates a
// fixed-size worker pool walking a filesystem subtree: a FIFO of directory
// work plus a sentinel-based shutdown protocol, with quiescence detected
// under the same lock that guards the running block total.
package queue

import (
	"fmt"
	"os"
	"sync"
)

// Kind tags a Task as ordinary directory work or a shutdown sentinel.
type Kind int

const (
	// KindWalk asks a worker to process the directory at Path.
	KindWalk Kind = iota
	// KindShutdown is a sentinel: one is enqueued per worker once the
	// coordinator decides the root is fully walked. A worker that
	// dequeues one exits its loop without processing a path.
	KindShutdown
)

// Task is the unit of work a worker pulls from the Queue.
type Task struct {
	Kind Kind
	Path string
}

// Queue holds pending Walk tasks for one root scan and tracks the state
// needed to detect quiescence: how many workers are currently executing a
// task, the accumulated block sum, whether any directory along the way was
// unreadable, and whether shutdown has already been triggered.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	tasks   []Task
	running int

	blockSum     int64
	permissionOK bool
	shutdown     bool

	workers int
	verbose bool
}

// New creates a Queue sized for the given worker count. permissionOK starts
// true; a worker clears it the first time it fails to read a directory.
func New(workers int, verbose bool) *Queue {
	q := &Queue{
		workers:      workers,
		verbose:      verbose,
		permissionOK: true,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds a Walk task to the tail of the queue and wakes one waiting
// worker. Safe to call from any worker or from the driver seeding the root.
func (q *Queue) Enqueue(path string) {
	q.mu.Lock()
	q.tasks = append(q.tasks, Task{Kind: KindWalk, Path: path})
	if q.verbose {
		fmt.Fprintf(os.Stderr, "[Q] ENQUEUE path=%s len=%d\n", path, len(q.tasks))
	}
	q.mu.Unlock()
	q.cond.Signal()
}

// NextTask blocks until a task is available and returns it. It has no
// failure or closed result: the caller keeps calling NextTask until it sees
// a KindShutdown task, which is the sole exit signal from the worker loop.
func (q *Queue) NextTask() Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 {
		q.cond.Wait()
	}

	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	if t.Kind == KindWalk {
		q.running++
	}
	if q.verbose {
		fmt.Fprintf(os.Stderr, "[Q] DEQUEUE path=%s kind=%d running=%d len=%d\n", t.Path, t.Kind, q.running, len(q.tasks))
	}
	return t
}

// CompleteTask records the outcome of a Walk task: the blocks it
// contributed and whether it hit a permission error, decrements the
// in-flight counter, and — if the queue is now empty with nothing
// running — triggers shutdown exactly once.
func (q *Queue) CompleteTask(blocks int64, ok bool) {
	q.mu.Lock()
	q.blockSum += blocks
	if !ok {
		q.permissionOK = false
	}
	q.running--
	empty := len(q.tasks) == 0 && q.running == 0
	alreadyDown := q.shutdown
	if q.verbose {
		fmt.Fprintf(os.Stderr, "[Q] COMPLETE blocks=%d ok=%t running=%d sum=%d\n", blocks, ok, q.running, q.blockSum)
	}
	q.mu.Unlock()

	if empty && !alreadyDown {
		q.tryShutdown()
	}
}

// tryShutdown re-validates the quiescence predicate under the lock and, if
// it still holds and shutdown hasn't already fired, enqueues exactly one
// sentinel per worker and flips shutdown. Re-checking under the lock (not
// trusting the caller's unlocked snapshot) is what keeps the transition a
// one-time event even when two workers finish concurrently.
func (q *Queue) tryShutdown() {
	q.mu.Lock()
	if q.shutdown || len(q.tasks) != 0 || q.running != 0 {
		q.mu.Unlock()
		return
	}
	q.shutdown = true
	for i := 0; i < q.workers; i++ {
		q.tasks = append(q.tasks, Task{Kind: KindShutdown})
	}
	if q.verbose {
		fmt.Fprintf(os.Stderr, "[Q] SHUTDOWN sentinels=%d\n", q.workers)
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// ExecuteShutdown is called by a worker when it dequeues a KindShutdown
// task. It idempotently re-asserts shutdown, matching the literal
// per-sentinel description of the protocol alongside the coordinator's own
// one-time transition in tryShutdown.
func (q *Queue) ExecuteShutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
}

// Reset clears per-root state (tasks, running, blockSum, shutdown) ahead of
// scanning the next root. permissionOK is intentionally left untouched: it
// is a process-wide flag that decides the final exit code, not a per-root
// one.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.tasks = q.tasks[:0]
	q.running = 0
	q.blockSum = 0
	q.shutdown = false
	q.mu.Unlock()
}

// BlockSum returns the accumulated block total for the current root.
func (q *Queue) BlockSum() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.blockSum
}

// PermissionOK reports whether every directory visited so far, across all
// roots, was readable.
func (q *Queue) PermissionOK() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.permissionOK
}
