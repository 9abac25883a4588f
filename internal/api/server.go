package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soliade/codenames/internal/app"
)

// Server represents the HTTP API server.
type Server struct {
	httpServer *http.Server
	router     chi.Router

	games  *app.GamesService
	health app.HealthService
	hub    *Hub

	limiter *RateLimiter
	cors    *CORSConfig
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithHub sets the SSE hub. Without one the stream endpoint is not served.
func WithHub(hub *Hub) ServerOption {
	return func(s *Server) { s.hub = hub }
}

// WithRateLimiter enables IP-based rate limiting.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = rl }
}

// WithCORS enables CORS for the given origins.
func WithCORS(cfg CORSConfig) ServerOption {
	return func(s *Server) { s.cors = &cfg }
}

// NewServer creates a new API server with the given dependencies.
func NewServer(addr string, games *app.GamesService, health app.HealthService, opts ...ServerOption) *Server {
	router := chi.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // disabled for SSE (long-lived connections)
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		games:  games,
		health: health,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.router.Use(securityHeadersMiddleware)
	if s.cors != nil {
		s.router.Use(corsMiddleware(*s.cors))
	}
	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleCreateGame)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", s.handleGetGame)
				r.Get("/state", s.handleGetState)
				r.Get("/timeline", s.handleTimeline)

				r.Post("/join", s.handleJoinGame)
				r.Post("/leave", s.handleLeaveGame)
				r.Post("/side", s.handleChooseSide)
				r.Post("/spy", s.handleDesignateSpy)
				r.Post("/rounds", s.handleStartRound)
				r.Post("/clue", s.handleGiveClue)
				r.Post("/select", s.handleSelectWord)
				r.Post("/highlight", s.handleHighlightWord)
				r.Post("/pass", s.handlePassTurn)
				r.Post("/restart", s.handleRestartGame)
				r.Post("/chat", s.handleChat)

				r.Delete("/players/{playerID}", s.handleKickPlayer)
				r.Patch("/players/{playerID}/spy", s.handleDesignatePlayerAsSpy)
				r.Delete("/highlight/{wordIndex}", s.handleUnhighlightWord)

				if s.hub != nil {
					r.Get("/stream", s.handleStream)
				}
			})
		})
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Handle(r.Context()))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.router
}
