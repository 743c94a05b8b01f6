package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/freekieb7/fileresponder/filesystem"
)

var (
	ErrInvalidRoot     = errors.New("config: root is not a directory")
	ErrInvalidDuration = errors.New("config: duration must be positive")
)

const (
	DefaultAddr          = "0.0.0.0:8080"
	DefaultName          = "fileresponder"
	DefaultURL           = "https://github.com/freekieb7/fileresponder"
	DefaultIdleTimeout   = 30 * time.Second
	DefaultStatsInterval = time.Minute
)

type Config struct {
	Addr          string
	Root          string
	AdminAddr     string
	Name          string
	URL           string
	IdleTimeout   time.Duration
	StatsInterval time.Duration
	LogLevel      slog.Level
	OTLPEndpoint  string
	OTLPInsecure  bool
}

// Load reads flags from args. Every flag falls back to an environment variable looked
// up through getenv, then to its default.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var cfg Config

	flags := flag.NewFlagSet(DefaultName, flag.ContinueOnError)
	flags.SetOutput(output)

	flags.StringVar(&cfg.Addr, "addr", envOr(getenv, "FILERESPONDER_ADDR", DefaultAddr), "Address the responder listens on.")
	flags.StringVar(&cfg.Root, "root", envOr(getenv, "FILERESPONDER_ROOT", filesystem.HomeRoot().Path()), "Directory files are served from.")
	flags.StringVar(&cfg.AdminAddr, "admin-addr", envOr(getenv, "FILERESPONDER_ADMIN_ADDR", ""), "Address of the health and stats endpoint. Empty disables it.")
	flags.StringVar(&cfg.Name, "name", envOr(getenv, "FILERESPONDER_NAME", DefaultName), "Server name sent in the Server header.")
	flags.StringVar(&cfg.URL, "url", envOr(getenv, "FILERESPONDER_URL", DefaultURL), "Server url sent in the Server header.")
	flags.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", envOr(getenv, "OTEL_EXPORTER_OTLP_ENDPOINT", ""), "OTLP gRPC collector host:port. Empty disables export.")
	flags.BoolVar(&cfg.OTLPInsecure, "otlp-insecure", envOr(getenv, "OTEL_EXPORTER_OTLP_INSECURE", "true") == "true", "Use a plaintext connection to the collector.")

	idleTimeout := durationFlag{value: DefaultIdleTimeout}
	if err := idleTimeout.fromEnv(getenv, "FILERESPONDER_IDLE_TIMEOUT"); err != nil {
		return cfg, err
	}
	flags.Var(&idleTimeout, "idle-timeout", "Idle keep-alive connections are closed after this duration.")

	statsInterval := durationFlag{value: DefaultStatsInterval}
	if err := statsInterval.fromEnv(getenv, "FILERESPONDER_STATS_INTERVAL"); err != nil {
		return cfg, err
	}
	flags.Var(&statsInterval, "stats-interval", "Interval of the loop statistics timer.")

	logLevel := levelFlag{}
	if err := logLevel.fromEnv(getenv, "FILERESPONDER_LOG_LEVEL"); err != nil {
		return cfg, err
	}
	flags.Var(&logLevel, "log-level", "Minimum log level: debug, info, warn or error.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	cfg.IdleTimeout = idleTimeout.value
	cfg.StatsInterval = statsInterval.value
	cfg.LogLevel = logLevel.value

	return cfg, nil
}

// Validate checks the configuration against fs.
func (cfg Config) Validate(fs filesystem.Filesystem) error {
	isDir, err := fs.IsDirectory(cfg.Root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRoot, cfg.Root, err)
	}
	if !isDir {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, cfg.Root)
	}

	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("%w: idle-timeout %s", ErrInvalidDuration, cfg.IdleTimeout)
	}
	if cfg.StatsInterval <= 0 {
		return fmt.Errorf("%w: stats-interval %s", ErrInvalidDuration, cfg.StatsInterval)
	}

	return nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return fallback
}

type durationFlag struct {
	value time.Duration
}

func (f *durationFlag) String() string {
	return f.value.String()
}

func (f *durationFlag) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	f.value = d
	return nil
}

func (f *durationFlag) fromEnv(getenv func(string) string, key string) error {
	if s := getenv(key); s != "" {
		if err := f.Set(s); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
	}
	return nil
}

type levelFlag struct {
	value slog.Level
}

func (f *levelFlag) String() string {
	return f.value.String()
}

func (f *levelFlag) Set(s string) error {
	return f.value.UnmarshalText([]byte(s))
}

func (f *levelFlag) fromEnv(getenv func(string) string, key string) error {
	if s := getenv(key); s != "" {
		if err := f.Set(s); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
	}
	return nil
}
