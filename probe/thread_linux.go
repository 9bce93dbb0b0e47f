//go:build linux

package probe

import "golang.org/x/sys/unix"

// threadID returns the ID of the calling OS thread. Workers in the sched
// package lock themselves to an OS thread, so the value is stable for a
// worker's lifetime.
func threadID() uint64 {
	return uint64(unix.Gettid())
}
