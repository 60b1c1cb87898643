package system

import "fmt"

// ActiveFiles (the `Active_File` set of spec.md §6.4/§5) tracks the
// absolute paths currently being imported, so a cycle (`a.curv`
// importing `b.curv` importing `a.curv`) is caught as an error instead
// of recursing forever.
//
// Adapted from internal/cache/cache.go's Cache: that type persisted a
// srcPath->sha256 map to disk for incremental-build hashing, which this
// package has no use for (§5 says nothing here is a multi-threaded or
// persisted cache, just in-process recursion-guard state); kept is the
// same "map keyed by absolute file path" shape and the load/contains/
// push/pop-by-path style of its methods.
type ActiveFiles struct {
	active map[string]bool
}

// NewActiveFiles starts an empty set.
func NewActiveFiles() *ActiveFiles {
	return &ActiveFiles{active: make(map[string]bool)}
}

// Push marks path as being imported, failing if it is already active
// (an import cycle).
func (a *ActiveFiles) Push(path string) error {
	if a.active[path] {
		return fmt.Errorf("import cycle detected at %s", path)
	}
	a.active[path] = true
	return nil
}

// Pop unmarks path once its import has finished (successfully or not).
func (a *ActiveFiles) Pop(path string) {
	delete(a.active, path)
}

// Contains reports whether path is currently being imported.
func (a *ActiveFiles) Contains(path string) bool {
	return a.active[path]
}
