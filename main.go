package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freekieb7/fileresponder/admin"
	"github.com/freekieb7/fileresponder/config"
	"github.com/freekieb7/fileresponder/filesystem"
	"github.com/freekieb7/fileresponder/http"
	"github.com/freekieb7/fileresponder/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) (err error) {
	cfg, err := config.Load(args, os.Getenv, os.Stderr)
	if err != nil {
		return err
	}

	fs := filesystem.NewLocalFileSystem()
	if err := cfg.Validate(fs); err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    cfg.Name,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
		MetricInterval: cfg.StatsInterval,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, shutdownTelemetry(flushCtx))
	}()

	logger := telemetry.NewLogger(cfg.Name, cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	root, err := filesystem.NewRoot(cfg.Root)
	if err != nil {
		return err
	}

	handler := http.NewHandler(nil)
	handler.Info = http.ServerInfo{Name: cfg.Name, URL: cfg.URL}
	handler.Filesystem = fs
	handler.Logger = logger
	handler.SetRoot(root)

	server := http.NewServer(cfg.Name, handler)
	server.Logger = logger
	server.Loop.Logger = logger
	server.Loop.IdleTimeout = cfg.IdleTimeout
	server.StatsInterval = cfg.StatsInterval

	if cfg.AdminAddr != "" {
		adminServer := &nethttp.Server{
			Addr:              cfg.AdminAddr,
			Handler:           admin.NewHandler(handler),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin endpoint listening", "addr", cfg.AdminAddr)
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				logger.Error("admin endpoint stopped", "error", err)
			}
		}()
		defer adminServer.Close()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("serving files", "addr", cfg.Addr, "root", root.Path())
		serveErr <- server.ListenAndServe(ctx, cfg.Addr)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
