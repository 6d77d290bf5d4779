// Package api exposes the catalog over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	v0 "github.com/mcpcatalog/registry/internal/api/handlers/v0"
	"github.com/mcpcatalog/registry/internal/config"
	"github.com/mcpcatalog/registry/internal/service"
)

// TrailingSlashMiddleware redirects requests with trailing slashes to their canonical form
func TrailingSlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(r.URL.Path, "/")

			// 308 preserves the request method.
			http.Redirect(w, r, newURL.String(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	catalog *service.CatalogService
	humaAPI huma.API
	server  *http.Server
	log     *zap.Logger
}

// NewServer creates a new HTTP server. metricsHandler may be nil when
// telemetry is disabled.
func NewServer(cfg *config.Config, catalog *service.CatalogService, metricsHandler http.Handler, log *zap.Logger) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("MCP Catalog", "1.0.0")
	humaConfig.Info.Description = "Directory of MCP servers harvested from the official README"
	api := humago.New(mux, humaConfig)

	v0.RegisterServersEndpoints(api, catalog)
	v0.RegisterHealthEndpoint(api)

	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	handler := TrailingSlashMiddleware(mux)

	return &Server{
		config:  cfg,
		catalog: catalog,
		humaAPI: api,
		log:     log,
		server: &http.Server{
			Addr:              cfg.ServerAddress,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins listening for incoming HTTP requests
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", zap.String("address", s.config.ServerAddress))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
