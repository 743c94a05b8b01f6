package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/freekieb7/fileresponder/test"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "fileresponder-test"})
	test.AssertNoError(t, err)
	test.AssertNoError(t, shutdown(context.Background()))
}

func TestNewLoggerWritesText(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger("fileresponder-test", slog.LevelInfo, &out)

	logger.Debug("hidden", "key", "value")
	logger.With("conn.id", "abc").Info("sent file", "size", "1.2 kB")

	got := out.String()
	test.AssertTrue(t, !strings.Contains(got, "hidden"), "debug records should be filtered")
	test.AssertTrue(t, strings.Contains(got, "msg=\"sent file\""), "info record should be written: "+got)
	test.AssertTrue(t, strings.Contains(got, "conn.id=abc"), "attrs should be kept: "+got)
}

func TestFanoutEnabled(t *testing.T) {
	var out bytes.Buffer
	handler := fanout{slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn})}

	test.AssertTrue(t, !handler.Enabled(context.Background(), slog.LevelInfo), "info should be disabled")
	test.AssertTrue(t, handler.Enabled(context.Background(), slog.LevelError), "error should be enabled")
}
