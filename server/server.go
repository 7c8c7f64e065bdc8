// Package server provides the HTTP surface of the dashboard: JSON API, HTML
// page, chart and live websocket stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/etnz/holdings/source"
)

// Poller is the data source served.
type Poller interface {
	State() source.State
	Subscribe() (<-chan source.State, func())
}

// Config holds server configuration.
type Config struct {
	Log      zerolog.Logger
	Addr     string
	Poller   Poller
	Resolver *holdings.CategoryResolver
	Options  renderer.Options
	Theme    string // default page theme
}

// Server represents the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	poller   Poller
	resolver *holdings.CategoryResolver
	opts     renderer.Options
	theme    string
	hub      *Hub
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		poller:   cfg.Poller,
		resolver: cfg.Resolver,
		opts:     cfg.Options,
		theme:    cfg.Theme,
	}
	if s.theme == "" {
		s.theme = renderer.Themes[0]
	}
	s.hub = NewHub(s.log, s.dashboardJSON)
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// long lived, outside of timeouts and compression.
	s.router.Get("/ws", s.handleWS)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.Compress(5))

		r.Get("/", s.handlePage)
		r.Get("/chart.svg", s.handleChart)
		r.Route("/api", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/categories", s.handleCategories)
		})
	})
}

// Start forwards every poller state to the websocket clients and serves HTTP
// until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.Stream(ctx)
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stream runs the websocket hub, fed by the poller, until ctx is done.
func (s *Server) Stream(ctx context.Context) {
	states, unsubscribe := s.poller.Subscribe()
	go s.hub.Run()
	go func() {
		defer unsubscribe()
		defer s.hub.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case st, ok := <-states:
				if !ok {
					return
				}
				s.hub.Broadcast(st)
			}
		}
	}()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.hub.Stop()
	return s.server.Shutdown(ctx)
}

// dashboard returns the dashboard of the current state for a category.
func (s *Server) dashboard(st source.State, category string) *renderer.Dashboard {
	return renderer.NewDashboard(st, s.resolver, category)
}

func (s *Server) dashboardJSON(st source.State, category string) ([]byte, error) {
	return json.Marshal(s.dashboard(st, category))
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
