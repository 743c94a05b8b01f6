package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/freekieb7/fileresponder/filesystem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RequestsObserver is consulted with every resolved path. The returned status is a
// recommendation: filesystem checks still run first, and only when they pass does an
// error recommendation (400 and up) replace the success response. Acting on the
// recommendation at all is an extension; an observer that always returns StatusOK only
// watches.
type RequestsObserver interface {
	OnHTTPRequest(conn *Conn, path string) Status
}

// Handler serves GET and HEAD for files below its root. It implements EventHandler.
type Handler struct {
	Info       ServerInfo
	Filesystem filesystem.Filesystem
	Logger     *slog.Logger

	root     filesystem.Root
	observer RequestsObserver
	tracer   trace.Tracer
	metrics  *metrics
}

// NewHandler serves from the user's home directory until SetRoot is called.
// observer may be nil.
func NewHandler(observer RequestsObserver) *Handler {
	return &Handler{
		Filesystem: filesystem.NewLocalFileSystem(),
		Logger:     slog.Default(),

		root:     filesystem.HomeRoot(),
		observer: observer,
		tracer:   otel.Tracer(instrumentationName),
		metrics:  newMetrics(otel.Meter(instrumentationName)),
	}
}

// SetRoot must be called before serving starts.
func (h *Handler) SetRoot(root filesystem.Root) {
	h.root = root
}

func (h *Handler) Root() filesystem.Root {
	return h.root
}

func (h *Handler) Stats() Stats {
	return h.metrics.snapshot()
}

func (h *Handler) OnAccepted(conn *Conn) {
	h.metrics.connectionOpened(context.Background())
	h.Logger.Debug("connection accepted", "conn.id", conn.ID, "remote", conn.RemoteAddr())
}

func (h *Handler) OnMoved(loop *Loop, conn *Conn) {
	h.Logger.Debug("connection moved", "conn.id", conn.ID, "loop", loop.Name)
}

func (h *Handler) OnClosed(conn *Conn) {
	h.metrics.connectionClosed(context.Background())
	h.Logger.Debug("connection closed", "conn.id", conn.ID)
}

func (h *Handler) OnTimer(loop *Loop, id TimerID) {
	stats := h.Stats()
	h.Logger.Debug("loop stats",
		"loop", loop.Name,
		"timer", id,
		"connections", loop.Len(),
		"requests", stats.Requests,
		"sent", stats.SentBytes,
	)
}

func (h *Handler) OnChildStatus(pid, status, signal int) {
	h.Logger.Debug("child status changed", "pid", pid, "status", status, "signal", signal)
}

// OnReadable reads what the connection has available and processes it. On EOF or a
// read failure the connection is closed and must not be used by the caller.
func (h *Handler) OnReadable(conn *Conn) {
	n, err := conn.SingleRead(conn.chunk)
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return
		}

		if errors.Is(err, io.EOF) {
			h.Logger.Debug("peer closed connection", "conn.id", conn.ID)
		} else {
			h.Logger.Error("read failed", "conn.id", conn.ID, "error", NewError(ConnectionTerminated, 0, "", err))
		}
		conn.Close()
		return
	}
	if n == 0 {
		conn.Close()
		return
	}

	h.ProcessReceived(conn, conn.appendBuffer(conn.chunk[:n]))
}

// ProcessReceived runs one exchange for the request in data. An incomplete request is
// left buffered on the connection until more bytes arrive.
func (h *Handler) ProcessReceived(conn *Conn, data []byte) {
	req, status, err := ParseRequest(data)
	if errors.Is(err, ErrIncomplete) {
		h.Logger.Debug("waiting for rest of request", "conn.id", conn.ID, "buffered", len(data))
		return
	}

	ctx, span := h.tracer.Start(context.Background(), "http.exchange",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("conn.id", conn.ID)),
	)
	defer span.End()

	var outcome Outcome
	if err != nil {
		outcome = h.reject(conn, status, err)
	} else {
		h.Logger.Debug("http request", "conn.id", conn.ID, "method", req.Method, "url", req.URL.String(), "protocol", req.Protocol.String())
		outcome = h.serve(conn, &req)
	}

	h.finish(ctx, conn, outcome)
}

// reject answers a request that failed to parse. Such a connection is never kept alive.
func (h *Handler) reject(conn *Conn, status Status, err error) Outcome {
	description := status.Text()
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		description = parseErr.Description
	}

	h.Logger.Error("malformed request", "conn.id", conn.ID, "status", int(status), "error", err)
	return h.sendError(conn, failed(ProtocolHTTP11, false, NewError(MalformedRequest, status, description, err)))
}

// serve classifies and resolves req, then hands it to the responder.
func (h *Handler) serve(conn *Conn, req *Request) Outcome {
	keepAlive := req.KeepAlive()
	protocol := req.Protocol

	if !isServable(req.Method) {
		return skipped(protocol, keepAlive, req.Method)
	}

	fail := func(kind ErrorKind, err error) Outcome {
		outcome := failed(protocol, keepAlive, NewError(kind, StatusNotFound, MessageFileNotFound, err))
		outcome.Method = req.Method
		return h.sendError(conn, outcome)
	}

	// invalid targets answer 404, not 400
	if !req.URL.IsValid() {
		return fail(InvalidTarget, nil)
	}

	filePath, err := h.root.Concat(strings.TrimPrefix(req.URL.PathForRequest(), "/"))
	if err != nil {
		h.Logger.Warn("unresolvable path", "conn.id", conn.ID, "url", req.URL.String(), "error", err)
		return fail(NotFound, err)
	}

	recommended := StatusOK
	if h.observer != nil {
		recommended = h.observer.OnHTTPRequest(conn, filePath)
	}

	return h.respond(conn, req, filePath, recommended, keepAlive)
}

// sendError emits an error outcome. A failed write becomes the outcome's error and
// wraps the original one.
func (h *Handler) sendError(conn *Conn, outcome Outcome) Outcome {
	if err := conn.SendError(outcome.Protocol, outcome.Method, outcome.Status, ExtraHeader, outcome.Message, outcome.KeepAlive, h.Info); err != nil {
		h.Logger.Error("failed to send error response", "conn.id", conn.ID, "status", int(outcome.Status), "error", err)
		outcome.Err = NewError(HeaderSendFailure, outcome.Status, outcome.Message, errors.Join(err, outcome.Err))
	}
	return outcome
}

// finish is the only place that decides the connection's fate after an exchange.
func (h *Handler) finish(ctx context.Context, conn *Conn, outcome Outcome) {
	conn.ResetBuffer()
	h.metrics.record(ctx, outcome)

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("http.request.method", outcome.Method),
		attribute.Int("http.response.status_code", int(outcome.Status)),
		attribute.String("fileresponder.outcome", outcome.Kind.String()),
		attribute.Bool("fileresponder.keep_alive", outcome.KeepAlive),
		attribute.Int64("fileresponder.sent", outcome.Sent),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		if kind, ok := KindOf(outcome.Err); ok && (kind == HeaderSendFailure || kind == BodySendFailure) {
			span.SetStatus(codes.Error, kind.String())
		}
	}

	if outcome.KeepAlive {
		return
	}

	if err := conn.Close(); err != nil {
		h.Logger.Debug("closing connection error", "conn.id", conn.ID, "error", err)
	}
}
