// Package metrics exposes viewer counters on a private prometheus registry.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync element operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Registry holds all metrics for the viewer. A nil *Registry is valid and
// records nothing.
type Registry struct {
	FilterRuns   prometheus.Counter
	SyncElements *prometheus.CounterVec
	LayoutTicks  prometheus.Counter
	LinksDropped prometheus.Counter
	VisibleNodes prometheus.Gauge
	VisibleLinks prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.FilterRuns = f.NewCounter(prometheus.CounterOpts{
		Name: "causalview_filter_runs_total",
		Help: "Total number of subgraph filter evaluations",
	})
	r.SyncElements = f.NewCounterVec(prometheus.CounterOpts{
		Name: "causalview_render_sync_elements_total",
		Help: "Drawn elements touched by render sync, by operation",
	}, []string{"op"})
	r.LayoutTicks = f.NewCounter(prometheus.CounterOpts{
		Name: "causalview_layout_ticks_total",
		Help: "Total number of layout simulation steps",
	})
	r.LinksDropped = f.NewCounter(prometheus.CounterOpts{
		Name: "causalview_links_dropped_total",
		Help: "Links dropped at load because an endpoint was unknown",
	})
	r.VisibleNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "causalview_visible_nodes",
		Help: "Nodes in the currently displayed subgraph",
	})
	r.VisibleLinks = f.NewGauge(prometheus.GaugeOpts{
		Name: "causalview_visible_links",
		Help: "Links in the currently displayed subgraph",
	})
	return r
}

// RecordFilter counts one filter run.
func (r *Registry) RecordFilter() {
	if r == nil {
		return
	}
	r.FilterRuns.Inc()
}

// RecordSync records the element operations of one render sync and the
// resulting visible counts.
func (r *Registry) RecordSync(created, updated, removed, nodes, links int) {
	if r == nil {
		return
	}
	r.SyncElements.WithLabelValues(OpCreate).Add(float64(created))
	r.SyncElements.WithLabelValues(OpUpdate).Add(float64(updated))
	r.SyncElements.WithLabelValues(OpRemove).Add(float64(removed))
	r.VisibleNodes.Set(float64(nodes))
	r.VisibleLinks.Set(float64(links))
}

// RecordTick counts one layout step.
func (r *Registry) RecordTick() {
	if r == nil {
		return
	}
	r.LayoutTicks.Inc()
}

// RecordDropped counts links dropped at load.
func (r *Registry) RecordDropped(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.LinksDropped.Add(float64(n))
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled. An empty addr
// disables the endpoint and returns immediately.
func Serve(ctx context.Context, addr string, r *Registry, logger *slog.Logger) error {
	if addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	return serve(ctx, ln, r, logger)
}

func serve(ctx context.Context, ln net.Listener, r *Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("metrics endpoint listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics serve: %w", err)
	}
}
