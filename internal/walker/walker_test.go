package walker

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func blocksOf(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("lstat %s: %v", path, err)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		t.Fatalf("no syscall.Stat_t for %s", path)
	}
	return stat.Blocks
}

func TestWalkNonexistentPathReportsZeroWithoutFlippingPermission(t *testing.T) {
	r := Walk(filepath.Join(t.TempDir(), "does-not-exist"))
	if r.PermissionDenied {
		t.Fatalf("a nonexistent path was never an unreadable directory: PermissionDenied must be false")
	}
	if r.Blocks != 0 {
		t.Fatalf("expected zero blocks for a nonexistent path, got %d", r.Blocks)
	}
	if len(r.Subdirs) != 0 {
		t.Fatalf("expected no subdirs for a nonexistent path")
	}
}

func TestWalkSingleRegularFileRootNeverAttemptsOpendir(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "leaf")
	if err := os.WriteFile(filePath, []byte("hello"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	fileBlocks := blocksOf(t, filePath)

	r := Walk(filePath)
	if r.PermissionDenied {
		t.Fatalf("a regular file root must never be treated as a failed opendir")
	}
	if r.Blocks != fileBlocks {
		t.Fatalf("Blocks = %d, want %d (the file's own blocks, counted once)", r.Blocks, fileBlocks)
	}
	if len(r.Subdirs) != 0 {
		t.Fatalf("expected no subdirs discovered for a non-directory root")
	}
}

func TestWalkEmptyDirDoubleCountsOwnBlocks(t *testing.T) {
	dir := t.TempDir()
	own := blocksOf(t, dir)

	r := Walk(dir)
	if r.PermissionDenied {
		t.Fatalf("expected PermissionDenied=false for an empty, readable directory")
	}
	if len(r.Subdirs) != 0 {
		t.Fatalf("expected no subdirs in an empty directory")
	}
	if r.Blocks != 2*own {
		t.Fatalf("Blocks = %d, want %d (2x own inode blocks)", r.Blocks, 2*own)
	}
}

func TestWalkSingleFileChildCountedOnce(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "leaf")
	if err := os.WriteFile(filePath, []byte("hello"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	own := blocksOf(t, dir)
	fileBlocks := blocksOf(t, filePath)

	r := Walk(dir)
	if r.PermissionDenied {
		t.Fatalf("expected PermissionDenied=false")
	}
	if r.Blocks != 2*own+fileBlocks {
		t.Fatalf("Blocks = %d, want %d", r.Blocks, 2*own+fileBlocks)
	}
}

func TestWalkDiscoversSubdirsWithoutRecursing(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "child")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := Walk(dir)
	if r.PermissionDenied {
		t.Fatalf("expected PermissionDenied=false")
	}
	if len(r.Subdirs) != 1 || r.Subdirs[0] != sub {
		t.Fatalf("Subdirs = %v, want [%s]", r.Subdirs, sub)
	}
}

func TestWalkSequentialNestedTree(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "child")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	leaf := filepath.Join(sub, "file")
	if err := os.WriteFile(leaf, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rootOwn := blocksOf(t, root)
	subOwn := blocksOf(t, sub)
	leafBlocks := blocksOf(t, leaf)

	total, permissionOK := WalkSequential(root)
	if !permissionOK {
		t.Fatalf("expected permissionOK=true for a fully readable tree")
	}
	want := 2*rootOwn + 2*subOwn + leafBlocks
	if total != want {
		t.Fatalf("WalkSequential(%s) = %d, want %d", root, total, want)
	}
}

func TestWalkUnreadableDirectorySetsPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory regardless of mode")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	defer os.Chmod(locked, 0755)

	own := blocksOf(t, locked)

	r := Walk(locked)
	if !r.PermissionDenied {
		t.Fatalf("expected PermissionDenied=true for a directory whose opendir fails")
	}
	if r.Blocks != own {
		t.Fatalf("Blocks = %d, want %d (own inode blocks only, opendir never succeeded)", r.Blocks, own)
	}
	if len(r.Subdirs) != 0 {
		t.Fatalf("expected no subdirs discovered when opendir fails")
	}
}

func TestWalkSequentialReportsUnreadableChild(t *testing.T) {
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	defer os.Chmod(locked, 0755)

	if os.Geteuid() == 0 {
		t.Skip("root can read any directory regardless of mode")
	}

	_, permissionOK := WalkSequential(root)
	if permissionOK {
		t.Fatalf("expected permissionOK=false when a subdirectory's opendir fails")
	}
}
