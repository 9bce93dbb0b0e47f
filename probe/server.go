package probe

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

// ErrAlreadyServing is returned when Serve is called on a provider that
// already has a live attach socket.
var ErrAlreadyServing = errors.New("probe: provider is already serving")

type server struct {
	provider *Provider
	listener net.Listener
	path     string
	logger   *zap.Logger
}

// SetLogger sets the logger used by the attach server. The emission path
// never logs; only connection handling does. The default is a no-op logger.
func (p *Provider) SetLogger(l *zap.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = l
}

// Serve exposes the provider's probes on the process's attach socket. It
// fails without side effects if the socket cannot be created; the caller may
// ignore the error, leaving the provider usable in-process only.
func (p *Provider) Serve() error {
	return p.ServeAt(SocketPath())
}

// ServeAt is Serve with an explicit socket path.
func (p *Provider) ServeAt(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.server != nil {
		return ErrAlreadyServing
	}
	if p.closed {
		return errors.New("probe: provider is closed")
	}

	// A leftover socket can only be a stale file from a recycled pid.
	_ = os.Remove(path)

	l, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("probe: cannot serve attach socket: %w", err)
	}

	logger := p.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &server{
		provider: p,
		listener: l,
		path:     path,
		logger:   logger,
	}
	p.server = srv

	atexit.Register(func() { _ = os.Remove(path) })

	go srv.acceptLoop()

	return nil
}

func (s *server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed, or a transient accept failure during
			// teardown. Either way the server is done.
			return
		}

		go s.handleConn(conn)
	}
}

func (s *server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}

	var req wireRequest
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		s.refuse(conn, "malformed request")
		return
	}

	switch req.Op {
	case "list":
		enc := json.NewEncoder(conn)
		if err := enc.Encode(listing()); err != nil {
			s.logger.Debug("probe listing write failed",
				zap.Error(err))
		}
	case "subscribe":
		s.stream(conn, scanner, req.Kinds)
	default:
		s.refuse(conn, "unknown op "+req.Op)
	}
}

func (s *server) refuse(conn net.Conn, reason string) {
	_ = json.NewEncoder(conn).Encode(map[string]string{"error": reason})
}

func (s *server) stream(conn net.Conn, scanner *bufio.Scanner, names []string) {
	var kinds []Kind
	for _, name := range names {
		k, ok := KindByName(name)
		if !ok {
			s.refuse(conn, "unknown probe "+name)
			return
		}
		kinds = append(kinds, k)
	}

	sub := s.provider.Subscribe(kinds...)
	defer sub.Close()

	// Notice a silent disconnect even when no events are flowing.
	go func() {
		for scanner.Scan() {
		}
		sub.Close()
	}()

	s.logger.Debug("tracer attached",
		zap.String("subscription", sub.id),
		zap.Strings("kinds", names))

	enc := json.NewEncoder(conn)
	for {
		select {
		case ev := <-sub.Events():
			if err := enc.Encode(toWire(ev)); err != nil {
				// Client went away.
				return
			}
		case <-sub.Done():
			return
		}
	}
}

func (s *server) close() {
	_ = s.listener.Close()
	_ = os.Remove(s.path)
}
