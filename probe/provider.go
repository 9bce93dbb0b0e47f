package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/xid"
)

const namespacePrefix = "taskprobe"

var namespaceOnce = sync.OnceValue(computeNamespace)

// Namespace returns the provider identity under which this process exposes
// its probes. It is computed once, is immutable for the process's lifetime,
// and is distinct across concurrently running instrumented processes on one
// host, so a tracing tool can select a single process or fan out over all of
// them.
func Namespace() string {
	return namespaceOnce()
}

func computeNamespace() string {
	pid := os.Getpid()
	if pid <= 0 {
		// No usable pid on this platform. An xid still gives a
		// per-process distinct identity.
		return namespacePrefix + "-" + xid.New().String()
	}

	return fmt.Sprintf("%s%d", namespacePrefix, pid)
}

// SocketPath returns the filesystem path of the attach socket for this
// process. External tracers discover instrumented processes by scanning the
// temp directory for sockets with the namespace prefix.
func SocketPath() string {
	return filepath.Join(os.TempDir(), Namespace()+".sock")
}

var defaultProvider = sync.OnceValue(NewProvider)

// Default returns the process-wide provider used by the runtime hooks.
func Default() *Provider {
	return defaultProvider()
}

// Register makes the default provider's probes observable from outside the
// process by serving the attach socket. It is safe to call once per process;
// on failure the returned error may be ignored, in which case external
// attachment stays unavailable but in-process subscription and the hooks
// themselves keep working.
func Register() error {
	return Default().Serve()
}
