// Package walker implements the single-directory block-accounting step
// shared by both scan modes: a sequential recursive walk (one worker) and
// the parallel worker-pool walk (driven by internal/queue). Both modes
// call the same Walk function per directory so their block totals agree.
package walker

import (
	"fmt"
	"os"
	"syscall"

	"github.com/mdutool/mdu/internal/pathutil"
)

// Result is what a single Walk call reports for one path: the block total
// it contributes directly (its own inode, its synthetic "." entry when it's
// a directory, and any non-directory children), the subdirectories
// discovered (for the caller to dispatch next), and whether opendir failed
// on it. PermissionDenied is the only outcome that should flip a process's
// permission-ok flag; a missing path or an unreadable child entry mid-listing
// are reported through Blocks/Subdirs alone.
type Result struct {
	Blocks           int64
	PermissionDenied bool
	Subdirs          []string
}

// lstatInfo lstats path, following no symlinks.
func lstatInfo(path string) (os.FileInfo, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

// blockCount returns the 512-byte block count reported for info. st_blocks
// is already in 512-byte units, so it is returned as-is with no further
// conversion.
func blockCount(info os.FileInfo) int64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return stat.Blocks
}

// Walk processes exactly one path. If it cannot be lstat'd at all, it
// contributes zero blocks and is silently ignored (spec: an unreachable
// path would have been caught while enumerating its parent otherwise). If
// it lstats successfully but isn't a directory, it contributes its own
// blocks and returns immediately — no opendir is ever attempted on a
// non-directory.
//
// For a directory, Walk lstats it, lstats a synthetic "." entry (which
// deliberately double-counts the directory's own blocks, matching
// readdir's historical behavior of yielding "." among a directory's
// entries), then lstats each real child. Non-directory children contribute
// their blocks directly; directory children are returned in Subdirs for
// the caller to dispatch as their own Walk calls rather than recursing
// here.
//
// Only a failed opendir (os.ReadDir) sets PermissionDenied and prints the
// "cannot read directory" diagnostic. A child whose lstat fails mid-listing
// stops enumeration of the rest of this directory but does not set
// PermissionDenied — the child's absence, not a permission failure, is the
// cause.
func Walk(path string) Result {
	info, ok := lstatInfo(path)
	if !ok {
		return Result{}
	}

	selfBlocks := blockCount(info)
	if !info.IsDir() {
		return Result{Blocks: selfBlocks}
	}

	total := selfBlocks

	// Synthetic "." entry: os.ReadDir does not yield it the way C's
	// readdir does, so it's accounted for explicitly here.
	if dotInfo, ok := lstatInfo(pathutil.Join(path, ".")); ok {
		total += blockCount(dotInfo)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdu: cannot read directory '%s': Permission denied\n", path)
		return Result{Blocks: total, PermissionDenied: true}
	}

	var subdirs []string
	for _, de := range entries {
		childPath := pathutil.Join(path, de.Name())
		childInfo, err := os.Lstat(childPath)
		if err != nil {
			return Result{Blocks: total, Subdirs: subdirs}
		}
		if childInfo.IsDir() {
			subdirs = append(subdirs, childPath)
			continue
		}
		total += blockCount(childInfo)
	}

	return Result{Blocks: total, Subdirs: subdirs}
}

// WalkSequential recursively walks path and every descendant directory in
// the calling goroutine, returning the aggregate block total across the
// whole subtree and whether every directory visited was readable (i.e. no
// opendir failure occurred anywhere in the subtree). It is used when the
// driver runs with a single worker, where spinning up the queue/worker
// machinery would be pure overhead.
func WalkSequential(path string) (int64, bool) {
	r := Walk(path)
	total := r.Blocks
	permissionOK := !r.PermissionDenied
	for _, sub := range r.Subdirs {
		subTotal, subOK := WalkSequential(sub)
		total += subTotal
		if !subOK {
			permissionOK = false
		}
	}
	return total, permissionOK
}
