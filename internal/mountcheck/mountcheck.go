// Package mountcheck implements the external mount-detection predicate
// the specification calls out as a collaborator of the resize engine:
// "returns true iff the given path appears in the host's mount table."
// The engine itself never parses /proc/mounts; it only calls IsMounted.
package mountcheck

// IsMounted reports whether path (or the device it resolves to) is
// currently mounted. A false negative here is the operator's problem,
// per the specification's concurrency model: "operators who bypass it
// accept corruption."
func IsMounted(path string) (bool, error) {
	return isMounted(path)
}
