package http

import (
	"bufio"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/freekieb7/fileresponder/filesystem"
	"github.com/google/uuid"
)

// DefaultReadPoll is how long SingleRead waits when nothing is buffered before it
// reports ErrWouldBlock.
const DefaultReadPoll = 10 * time.Millisecond

// Conn is one accepted client connection. It is driven by a single goroutine of its
// Loop; only Close and IsClosed are safe to call from elsewhere.
type Conn struct {
	ID       string
	ReadPoll time.Duration
	Now      func() time.Time

	conn   net.Conn
	reader *bufio.Reader
	chunk  []byte
	buf    []byte
	out    []byte
	closed atomic.Bool
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{
		ID:       uuid.NewString(),
		ReadPoll: DefaultReadPoll,
		Now:      time.Now,
		conn:     conn,
		reader:   bufio.NewReaderSize(conn, ReadChunkSize),
		chunk:    make([]byte, ReadChunkSize),
	}
}

func (c *Conn) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// WaitReadable blocks until at least one byte can be read, the peer is gone, or timeout
// passes (os.ErrDeadlineExceeded). A zero timeout waits forever.
func (c *Conn) WaitReadable(timeout time.Duration) error {
	if c.IsClosed() {
		return net.ErrClosed
	}

	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return err
	}

	_, err := c.reader.Peek(1)
	return err
}

// SingleRead performs at most one read into p. It returns ErrWouldBlock when no data
// arrived in time, and io.EOF once the peer closed its side.
func (c *Conn) SingleRead(p []byte) (int, error) {
	if c.IsClosed() {
		return 0, net.ErrClosed
	}

	if c.reader.Buffered() == 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.ReadPoll)); err != nil {
			return 0, err
		}
		defer c.conn.SetReadDeadline(time.Time{})
	}

	n, err := c.reader.Read(p)
	if n == 0 && err != nil && isTransient(err) {
		return 0, ErrWouldBlock
	}
	return n, err
}

// Buffer is the request data accumulated since the last completed exchange.
func (c *Conn) Buffer() []byte {
	return c.buf
}

func (c *Conn) appendBuffer(data []byte) []byte {
	c.buf = append(c.buf, data...)
	return c.buf
}

func (c *Conn) ResetBuffer() {
	c.buf = c.buf[:0]
}

// SendError writes an error response. A HEAD request gets the head only.
func (c *Conn) SendError(protocol Protocol, method string, status Status, extraHeader, message string, keepAlive bool, info ServerInfo) error {
	if method == MethodHead {
		c.out = AppendErrorHead(c.out[:0], protocol, status, extraHeader, message, keepAlive, info, c.Now())
	} else {
		c.out = AppendErrorResponse(c.out[:0], protocol, status, extraHeader, message, keepAlive, info, c.Now())
	}
	return c.write(c.out)
}

// SendHeaders writes a response head announcing size bytes of mime content.
func (c *Conn) SendHeaders(protocol Protocol, status Status, extraHeader, mime string, size int64, mtime time.Time, keepAlive bool, info ServerInfo) error {
	c.out = AppendHeaders(c.out[:0], protocol, status, extraHeader, mime, size, mtime, keepAlive, info, c.Now())
	return c.write(c.out)
}

// SendFile streams exactly size bytes of file from its current offset.
func (c *Conn) SendFile(file filesystem.File, size int64) (int64, error) {
	if c.IsClosed() {
		return 0, net.ErrClosed
	}
	if size <= 0 {
		return 0, nil
	}
	return sendFile(c.conn, file, size)
}

func (c *Conn) write(p []byte) error {
	if c.IsClosed() {
		return net.ErrClosed
	}

	_, err := c.conn.Write(p)
	return err
}

func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	return c.conn.Close()
}

func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

func copyFile(dst io.Writer, file filesystem.File, size int64) (int64, error) {
	written, err := io.CopyN(dst, file, size)
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return written, err
}

func isTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}
