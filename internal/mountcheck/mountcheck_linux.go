//go:build linux

package mountcheck

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// isMounted scans /proc/mounts (the `/proc/mounts`-style mount table
// the specification describes) for a device field matching path, either
// literally or after resolving symlinks.
func isMounted(path string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		dev := fields[0]
		if dev == path || dev == resolved {
			return true, nil
		}
		if devResolved, err := filepath.EvalSymlinks(dev); err == nil && devResolved == resolved {
			return true, nil
		}
	}
	return false, sc.Err()
}
