package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var ErrServerClosed = errors.New("http: server closed")

// StatsTimer is the timer id the server registers for periodic loop statistics.
const StatsTimer TimerID = 1

type Server struct {
	Name          string
	Loop          *Loop
	Logger        *slog.Logger
	StatsInterval time.Duration

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
}

func NewServer(name string, handler EventHandler) *Server {
	return &Server{
		Name:   name,
		Loop:   NewLoop(name, handler),
		Logger: slog.Default(),
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is done or Shutdown is called. It always returns
// a non-nil error, ErrServerClosed after a shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.StatsInterval > 0 {
		s.Loop.AddTimer(StatsTimer, s.StatsInterval)
	}

	loopDone := make(chan struct{})
	go func() {
		s.Loop.Run(ctx)
		close(loopDone)
	}()
	defer func() {
		cancel()
		<-loopDone
	}()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}

			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			s.Logger.Error("failed to accept connection", "error", err, "retry", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.ServeConn(conn)
	}
}

// ServeConn hands an already accepted connection to the loop.
func (s *Server) ServeConn(conn net.Conn) {
	if err := s.Loop.Register(NewConn(conn)); err != nil {
		s.Logger.Debug("rejecting connection", "remote", conn.RemoteAddr(), "error", err)
		conn.Close()
	}
}

func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting, closes every connection and waits for them, or until
// ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.Loop.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
