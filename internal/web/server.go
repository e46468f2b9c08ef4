// Package web serves the guest list page: the add form, the editable table
// and the export and clear actions.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wedding-guests/internal/store"
	"wedding-guests/internal/view"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server is the HTTP front end for one guest list
type Server struct {
	store  *store.Store
	grid   *view.Grid
	title  string
	log    zerolog.Logger
	pages  *template.Template
	router *chi.Mux
	server *http.Server

	// selection is shared by all requests; a delete request sets and consumes
	// it as one step
	selectMu sync.Mutex
}

// NewServer creates a Server for s. The grid must follow the same store.
func NewServer(s *store.Store, grid *view.Grid, title string, log zerolog.Logger) *Server {
	srv := &Server{
		store:  s,
		grid:   grid,
		title:  title,
		log:    log.With().Str("component", "web").Logger(),
		pages:  template.Must(template.ParseFS(templateFiles, "templates/*.html")),
		router: chi.NewRouter(),
	}
	srv.setupMiddleware()
	srv.setupRoutes()
	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/export", s.handleExport)

	s.router.Route("/guests", func(r chi.Router) {
		r.Post("/", s.handleAddGuest)
		r.Post("/delete", s.handleDeleteSelected)
		r.Post("/clear", s.handleClear)
		r.Post("/{id}/fields/{field}", s.handleUpdateField)
	})

	s.router.Get("/api/guests", s.handleListGuests)
}

// Start begins listening for HTTP requests
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger logs one line per request with the chi request id
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
