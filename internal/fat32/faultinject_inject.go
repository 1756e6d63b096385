//go:build faultinject

package fat32

import (
	"os"
)

// maybeCrash terminates the process immediately when FAT32_CRASH_AT
// names point, simulating a crash right after the preceding durability
// barrier. Only linked into binaries built with -tags faultinject.
func maybeCrash(point CrashPoint) {
	if os.Getenv("FAT32_CRASH_AT") == string(point) {
		os.Exit(137)
	}
}
