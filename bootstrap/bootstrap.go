// Package bootstrap wires configuration, logging, schema, metrics and the
// registry holder into a ready-to-use App.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/artpar/paramset/adapters/metrics"
	"github.com/artpar/paramset/config"
	"github.com/artpar/paramset/core/registry"
	"github.com/artpar/paramset/core/schema"
	"github.com/artpar/paramset/domain/device"
)

// App represents the configured application.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Schema schema.Document

	// Metrics is nil unless metrics are enabled.
	Metrics         *metrics.Collector
	MetricsRegistry *prometheus.Registry

	metricsServer *http.Server
}

// Options override values from the config file and environment. Empty
// fields leave the loaded value alone.
type Options struct {
	ConfigPath string
	SchemaPath string
	ValuesPath string
	LogLevel   string
	LogFormat  string

	// LogOutput defaults to stderr.
	LogOutput io.Writer
}

// New loads configuration, builds the logger and loads the schema.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyOptions(cfg, opts)

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := NewLogger(cfg.Logging.Level, cfg.Logging.Format, out)

	doc, err := LoadSchema(cfg.Schema.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("schema", doc.Name).
		Int("params", len(doc.Params)).
		Msg("schema loaded")

	a := &App{
		Config: cfg,
		Logger: logger,
		Schema: doc,
	}

	if cfg.Metrics.Enabled {
		a.MetricsRegistry = prometheus.NewRegistry()
		a.Metrics = metrics.NewWithRegistry(a.MetricsRegistry)
		logger.Debug().Msg("prometheus metrics enabled")
	}

	return a, nil
}

func applyOptions(cfg *config.Config, opts Options) {
	if opts.SchemaPath != "" {
		cfg.Schema.Path = opts.SchemaPath
	}
	if opts.ValuesPath != "" {
		cfg.Values.Path = opts.ValuesPath
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
}

// NewLogger builds a logger writing JSON to out, or human-readable lines
// when format is "console". An unknown level falls back to info.
func NewLogger(levelStr, format string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// LoadSchema parses the schema at path, or returns the built-in device
// schema when path is empty.
func LoadSchema(path string) (schema.Document, error) {
	if path == "" {
		return device.Document(device.Defaults()), nil
	}
	doc, err := schema.ParseFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("load schema: %w", err)
	}
	return doc, nil
}

// NewRegistry returns a fresh registry with the schema applied. Every call
// produces an identical schema, so two registries can exchange values.
func (a *App) NewRegistry() (*registry.Registry, error) {
	opts := []registry.Option{registry.WithLogger(a.Logger)}
	if a.Metrics != nil {
		opts = append(opts, registry.WithObserver(a.Metrics))
	}

	r := registry.New(opts...)
	if err := a.Schema.Define(r); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return r, nil
}

// NewHolder returns a holder for a fresh registry bound to the configured
// values file. The file is not read yet.
func (a *App) NewHolder() (*config.Holder, error) {
	if a.Config.Values.Path == "" {
		return nil, errors.New("no values file configured")
	}

	r, err := a.NewRegistry()
	if err != nil {
		return nil, err
	}

	h, err := config.NewHolder(r, a.Config.Values, a.Logger)
	if err != nil {
		return nil, err
	}
	if a.Metrics != nil {
		h.SetObserver(a.Metrics)
	}
	return h, nil
}

// ServeMetrics starts the metrics endpoint in the background. It does
// nothing when metrics are disabled.
func (a *App) ServeMetrics() {
	if a.Metrics == nil {
		return
	}

	a.metricsServer = &http.Server{
		Addr:              a.Config.Metrics.Addr,
		Handler:           metrics.Handler(a.MetricsRegistry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.Logger.Info().
			Str("addr", a.metricsServer.Addr).
			Msg("starting metrics server")
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// Shutdown stops the metrics endpoint if it is running.
func (a *App) Shutdown() error {
	if a.metricsServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.metricsServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
