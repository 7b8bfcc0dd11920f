package observability

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own listener,
// kept off the portal's public port so the API surface and the operational
// surface can be firewalled independently.
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer builds the scrape server for the given port and path.
// Without a configured Prometheus exporter the server still starts but
// serves 404 for everything.
func NewMetricsServer(port int, path string, provider *Provider) *MetricsServer {
	mux := http.NewServeMux()

	if provider != nil && provider.promExporter != nil {
		mux.Handle(path, promhttp.Handler())
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves the scrape endpoint, blocking until shutdown. Returns
// http.ErrServerClosed after a graceful Shutdown.
func (ms *MetricsServer) Start() error {
	slog.Info("Starting metrics server", "addr", ms.server.Addr)
	return ms.server.ListenAndServe()
}

// Shutdown stops the scrape server, waiting for in-flight scrapes.
func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	return ms.server.Shutdown(ctx)
}
