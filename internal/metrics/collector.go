// Package metrics exports Prometheus metrics for the engine's RPC surface
// and its SMB share cache.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/log"
)

// Collector aggregates Prometheus metrics for RPC commands and the share
// cache, plus a small in-memory per-command summary for the /debug
// endpoints.
type Collector struct {
	mu       sync.RWMutex
	config   *Config
	registry *prometheus.Registry

	commandCounter   *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	shareCacheResult *prometheus.CounterVec
	errorCounter     *prometheus.CounterVec

	commands  map[string]*CommandMetrics
	lastReset time.Time

	server *http.Server
}

// Config controls metrics collection and the exporter's HTTP endpoint.
type Config struct {
	Enabled   bool
	Port      int
	Path      string
	Namespace string
	Subsystem string
}

// CommandMetrics tracks per-command call counts for the /debug endpoints.
type CommandMetrics struct {
	Count         int64
	TotalDuration time.Duration
	Errors        int64
	LastCall      time.Time
}

// NewCollector returns a Collector. A nil config is replaced by enabled
// defaults (port 9722, path /metrics); if config is disabled, it returns a
// no-op Collector whose methods are safe to call but do nothing.
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = &Config{Enabled: true, Port: 9722, Path: "/metrics", Namespace: "duopane", Subsystem: "engine"}
	}
	if !config.Enabled {
		return &Collector{config: config}, nil
	}

	registry := prometheus.NewRegistry()
	c := &Collector{
		config:    config,
		registry:  registry,
		commands:  make(map[string]*CommandMetrics),
		lastReset: time.Now(),
	}
	c.initMetrics()
	for _, m := range []prometheus.Collector{c.commandCounter, c.commandDuration, c.shareCacheResult, c.errorCounter} {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return c, nil
}

func (c *Collector) initMetrics() {
	c.commandCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: "commands_total", Help: "Total RPC commands handled, by command and outcome.",
	}, []string{"command", "status"})

	c.commandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: "command_duration_seconds", Help: "RPC command handling latency.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	}, []string{"command"})

	c.shareCacheResult = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: "share_cache_requests_total", Help: "SMB share-list cache hits and misses.",
	}, []string{"result"})

	c.errorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem,
		Name: "command_errors_total", Help: "RPC command errors, classified by engine error code.",
	}, []string{"command", "code"})
}

// Start serves /metrics (and /debug/commands) on the configured port. A
// disabled Collector returns immediately.
func (c *Collector) Start(_ context.Context) error {
	if c.config == nil || !c.config.Enabled {
		return nil
	}
	path := c.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/commands", c.debugCommandsHandler)

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithComponent("metrics").Error().Err(err).Msg("metrics server stopped")
		}
	}()
	return nil
}

// Stop shuts down the metrics HTTP server, if one was started.
func (c *Collector) Stop(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}

// RecordCommand records one RPC command invocation: its duration, and
// whether it succeeded. A non-nil err is classified by engineerr code
// where possible, otherwise "internal".
func (c *Collector) RecordCommand(command string, duration time.Duration, err error) {
	if c.config == nil || !c.config.Enabled {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
		c.errorCounter.With(prometheus.Labels{"command": command, "code": classifyCode(err)}).Inc()
	}
	c.commandCounter.With(prometheus.Labels{"command": command, "status": status}).Inc()
	c.commandDuration.With(prometheus.Labels{"command": command}).Observe(duration.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.commands[command]
	if !ok {
		m = &CommandMetrics{}
		c.commands[command] = m
	}
	m.Count++
	m.TotalDuration += duration
	m.LastCall = time.Now()
	if err != nil {
		m.Errors++
	}
}

// RecordShareCacheHit and RecordShareCacheMiss track the SMB enumerator's
// TTL cache effectiveness (spec §4.8).
func (c *Collector) RecordShareCacheHit() {
	if c.config == nil || !c.config.Enabled {
		return
	}
	c.shareCacheResult.With(prometheus.Labels{"result": "hit"}).Inc()
}

func (c *Collector) RecordShareCacheMiss() {
	if c.config == nil || !c.config.Enabled {
		return
	}
	c.shareCacheResult.With(prometheus.Labels{"result": "miss"}).Inc()
}

// CommandsSnapshot returns a copy of the per-command summary the /debug
// endpoint serves, for callers (tests, other debug surfaces) that want it
// as data rather than text.
func (c *Collector) CommandsSnapshot() map[string]CommandMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]CommandMetrics, len(c.commands))
	for k, v := range c.commands {
		out[k] = *v
	}
	return out
}

func classifyCode(err error) string {
	var ee *engineerr.EngineError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "internal"
}

func (c *Collector) debugCommandsHandler(w http.ResponseWriter, _ *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain")
	writef := func(format string, args ...interface{}) { _, _ = fmt.Fprintf(w, format, args...) }

	writef("%-28s %10s %10s %14s\n", "Command", "Count", "Errors", "Last call")
	for name, m := range c.commands {
		writef("%-28s %10d %10d %14s\n", name, m.Count, m.Errors, m.LastCall.Format("15:04:05"))
	}
}
