//go:build !linux

package probe

// threadID is unavailable on this platform. Events carry a zero thread ID,
// and consumers that correlate per thread degrade to treating the process as
// a single thread.
func threadID() uint64 {
	return 0
}
