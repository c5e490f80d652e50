package pathutil

import "strings"

// Join concatenates a directory and an entry name into a child path without
// collapsing "." or ".." segments. Unlike filepath.Join, it never cleans the
// result: callers rely on Join(dir, ".") producing a path whose lstat
// targets dir itself.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
