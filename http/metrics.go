package http

import (
	"context"
	"strconv"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/freekieb7/fileresponder/http"

// Stats is a point in time snapshot of a handler's counters.
type Stats struct {
	ActiveConnections int64
	Requests          int64
	SentBytes         int64
}

type metrics struct {
	requests    metric.Int64Counter
	sentBytes   metric.Int64Counter
	connections metric.Int64UpDownCounter

	activeConnections atomic.Int64
	requestCount      atomic.Int64
	sentByteCount     atomic.Int64
}

func newMetrics(meter metric.Meter) *metrics {
	m := &metrics{}

	var err error
	m.requests, err = meter.Int64Counter("fileresponder.requests",
		metric.WithDescription("The number of completed exchanges by status and outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		otel.Handle(err)
	}

	m.sentBytes, err = meter.Int64Counter("fileresponder.sent.bytes",
		metric.WithDescription("The number of file body bytes sent"),
		metric.WithUnit("By"))
	if err != nil {
		otel.Handle(err)
	}

	m.connections, err = meter.Int64UpDownCounter("fileresponder.connections.active",
		metric.WithDescription("The number of open client connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		otel.Handle(err)
	}

	return m
}

func (m *metrics) connectionOpened(ctx context.Context) {
	m.activeConnections.Add(1)
	if m.connections != nil {
		m.connections.Add(ctx, 1)
	}
}

func (m *metrics) connectionClosed(ctx context.Context) {
	m.activeConnections.Add(-1)
	if m.connections != nil {
		m.connections.Add(ctx, -1)
	}
}

func (m *metrics) record(ctx context.Context, outcome Outcome) {
	m.requestCount.Add(1)
	m.sentByteCount.Add(outcome.Sent)

	if m.requests != nil {
		m.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", outcome.Kind.String()),
			attribute.String("status", strconv.Itoa(int(outcome.Status))),
		))
	}
	if m.sentBytes != nil && outcome.Sent > 0 {
		m.sentBytes.Add(ctx, outcome.Sent)
	}
}

func (m *metrics) snapshot() Stats {
	return Stats{
		ActiveConnections: m.activeConnections.Load(),
		Requests:          m.requestCount.Load(),
		SentBytes:         m.sentByteCount.Load(),
	}
}
