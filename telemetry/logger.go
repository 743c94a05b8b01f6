package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// NewLogger writes text records at level or above to w and forwards every record to
// the global OpenTelemetry logger provider under name.
func NewLogger(name string, level slog.Leveler, w io.Writer) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	bridge := otelslog.NewHandler(name)

	return slog.New(fanout{text, bridge})
}

// fanout dispatches a record to every handler that is enabled for it.
type fanout []slog.Handler

func (handlers fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanout) Handle(ctx context.Context, record slog.Record) error {
	var err error
	for _, handler := range handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		err = errors.Join(err, handler.Handle(ctx, record.Clone()))
	}
	return err
}

func (handlers fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(handlers))
	for i, handler := range handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return next
}

func (handlers fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(handlers))
	for i, handler := range handlers {
		next[i] = handler.WithGroup(name)
	}
	return next
}
