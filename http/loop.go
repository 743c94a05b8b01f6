package http

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/freekieb7/fileresponder/scheduler"
)

const DefaultIdleTimeout = 30 * time.Second

var ErrLoopStopped = errors.New("http: loop stopped")

type TimerID uint64

// EventHandler is the set of callbacks a Loop drives. Each connection's callbacks are
// invoked from one goroutine at a time; OnTimer runs on the timer goroutine.
type EventHandler interface {
	OnAccepted(conn *Conn)
	OnMoved(loop *Loop, conn *Conn)
	OnClosed(conn *Conn)
	OnReadable(conn *Conn)
	OnTimer(loop *Loop, id TimerID)
	OnChildStatus(pid, status, signal int)
}

// Loop owns registered connections. It waits for readability on each of them and
// releases a connection once the handler closed it.
type Loop struct {
	Name        string
	IdleTimeout time.Duration
	Logger      *slog.Logger

	handler   EventHandler
	scheduler *scheduler.Scheduler

	mu      sync.Mutex
	conns   map[*Conn]struct{}
	stopped bool
	wg      sync.WaitGroup
}

func NewLoop(name string, handler EventHandler) *Loop {
	return &Loop{
		Name:        name,
		IdleTimeout: DefaultIdleTimeout,
		Logger:      slog.Default(),

		handler:   handler,
		scheduler: scheduler.NewScheduler(),
		conns:     make(map[*Conn]struct{}),
	}
}

// Register takes ownership of conn and starts serving it.
func (loop *Loop) Register(conn *Conn) error {
	loop.mu.Lock()
	if loop.stopped {
		loop.mu.Unlock()
		return ErrLoopStopped
	}
	loop.conns[conn] = struct{}{}
	loop.wg.Add(1)
	loop.mu.Unlock()

	loop.handler.OnAccepted(conn)
	go loop.serve(conn)
	return nil
}

// AddTimer fires OnTimer with id every interval while Run is active.
func (loop *Loop) AddTimer(id TimerID, interval time.Duration) {
	job := scheduler.NewJob(uint64(id)).
		WithInterval(interval).
		WithTasks(func(now time.Time) {
			loop.handler.OnTimer(loop, id)
		})

	loop.scheduler.AddJob(job)
}

// SetTimerResolution sets how often timers are checked. It must be called before Run.
func (loop *Loop) SetTimerResolution(resolution time.Duration) {
	loop.scheduler.WithResolution(resolution)
}

func (loop *Loop) RemoveTimer(id TimerID) bool {
	return loop.scheduler.RemoveJob(uint64(id))
}

func (loop *Loop) Len() int {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	return len(loop.conns)
}

// Run fires timers until ctx is done, then stops the loop.
func (loop *Loop) Run(ctx context.Context) {
	loop.scheduler.Run(ctx)
	loop.Stop()
}

// Stop closes every connection and waits until all of them are released.
func (loop *Loop) Stop() {
	loop.mu.Lock()
	loop.stopped = true
	conns := make([]*Conn, 0, len(loop.conns))
	for conn := range loop.conns {
		conns = append(conns, conn)
	}
	loop.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}

	loop.wg.Wait()
}

func (loop *Loop) serve(conn *Conn) {
	defer loop.wg.Done()
	defer loop.release(conn)

	for {
		err := conn.WaitReadable(loop.IdleTimeout)
		if conn.IsClosed() {
			return
		}
		if err != nil && isTimeout(err) {
			loop.Logger.Debug("closing idle connection", "conn.id", conn.ID, "idle", loop.IdleTimeout)
			conn.Close()
			return
		}

		// EOF and read errors are reported through OnReadable as well, the
		// handler owns closing in that case
		loop.dispatch(conn)

		if conn.IsClosed() {
			return
		}
		if err != nil {
			conn.Close()
			return
		}
	}
}

// dispatch runs OnReadable and closes the connection if the handler panics.
func (loop *Loop) dispatch(conn *Conn) {
	defer func() {
		if recovered := recover(); recovered != nil {
			loop.Logger.Error("handler panicked", "conn.id", conn.ID, "panic", recovered)
			conn.Close()
		}
	}()

	loop.handler.OnReadable(conn)
}

func (loop *Loop) release(conn *Conn) {
	loop.mu.Lock()
	delete(loop.conns, conn)
	loop.mu.Unlock()

	loop.handler.OnClosed(conn)
}
