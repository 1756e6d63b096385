//go:build !faultinject

package fat32

// maybeCrash is the production no-op. A build tagged "faultinject"
// (faultinject_inject.go) replaces it with one that reads FAT32_CRASH_AT
// and exits the process immediately, simulating power loss at that
// exact point for crash-recovery testing. This must not exist in
// production builds, which is why the behavior lives behind a build
// tag rather than a runtime flag.
func maybeCrash(point CrashPoint) {}
