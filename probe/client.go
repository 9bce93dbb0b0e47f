package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// A Client is one attachment to another process's probe socket.
type Client struct {
	conn net.Conn
}

// Dial attaches to the probe socket at path.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("probe: cannot attach to %s: %w", path, err)
	}

	return &Client{conn: conn}, nil
}

// DialPid attaches to the probe socket of the process with the given pid.
func DialPid(pid int) (*Client, error) {
	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("%s%d.sock", namespacePrefix, pid))
	return Dial(path)
}

// Close detaches the client.
func (c *Client) Close() error {
	return c.conn.Close()
}

// A ProbeInfo describes one probe exposed by a provider.
type ProbeInfo struct {
	Name string
	Args []string
}

// List asks the provider for its identity and probe listing, then closes the
// connection; the client cannot be reused afterwards.
func (c *Client) List() (provider string, probes []ProbeInfo, err error) {
	defer c.conn.Close()

	if err := c.send(wireRequest{Op: "list"}); err != nil {
		return "", nil, err
	}

	var l wireListing
	if err := json.NewDecoder(c.conn).Decode(&l); err != nil {
		return "", nil, fmt.Errorf("probe: bad listing: %w", err)
	}

	for _, p := range l.Probes {
		probes = append(probes, ProbeInfo{Name: p.Name, Args: p.Args})
	}

	return l.Provider, probes, nil
}

// Stream subscribes to the named probes (all if none are given) and calls fn
// for every received event until ctx is cancelled or the provider goes away.
func (c *Client) Stream(
	ctx context.Context,
	kinds []string,
	fn func(Event),
) error {
	if err := c.send(wireRequest{Op: "subscribe", Kinds: kinds}); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Bytes()

		var w wireEvent
		if err := json.Unmarshal(line, &w); err != nil || w.Kind == "" {
			var e struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(line, &e) == nil && e.Error != "" {
				return fmt.Errorf("probe: provider refused: %s",
					e.Error)
			}
			continue
		}

		if ev, ok := fromWire(w); ok {
			fn(ev)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return scanner.Err()
}

func (c *Client) send(req wireRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("probe: request failed: %w", err)
	}

	return nil
}

// Discover scans the temp directory for attach sockets of instrumented
// processes and returns the pids found. A process that exited without
// removing its socket may still be listed; callers attaching to it get a
// connection error.
func Discover() ([]int, error) {
	pattern := filepath.Join(os.TempDir(), namespacePrefix+"*.sock")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".sock")
		raw := strings.TrimPrefix(base, namespacePrefix)
		pid, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}

	return pids, nil
}
