package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swaggo/swag"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
	"github.com/AshesOfPhoenix/telepost/internal/metrics"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            int
	Version         string
	APIKey          string
	APIKeyHeader    string
	CORSOrigins     []string
	TelegramBotName string
	Logger          *slog.Logger
}

// Server is the HTTP transport over the auth handlers and social
// controllers. One handler pair is mounted per configured provider.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	auth    map[domain.Provider]driving.AuthHandler
	socials map[domain.Provider]driving.SocialController

	pages *pageRenderer

	db      Pinger
	limiter driven.RateLimiter

	metricsHandler http.Handler
}

// NewServer creates a new HTTP server. limiter and metricsHandler may be
// nil; db may be nil in tests.
func NewServer(
	cfg Config,
	authHandlers []driving.AuthHandler,
	socialControllers []driving.SocialController,
	limiter driven.RateLimiter,
	db Pinger,
	metricsHandler http.Handler,
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		logger:         logger,
		auth:           make(map[domain.Provider]driving.AuthHandler),
		socials:        make(map[domain.Provider]driving.SocialController),
		pages:          newPageRenderer(cfg.TelegramBotName),
		db:             db,
		limiter:        limiter,
		metricsHandler: metricsHandler,
	}
	for _, h := range authHandlers {
		s.auth[h.Platform()] = h
	}
	for _, c := range socialControllers {
		s.socials[c.Platform()] = c
	}

	s.setupRoutes()

	handler := s.middlewareChain(cfg)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// middlewareChain wires the cross-cutting layers around the router.
// Order (outermost first): recovery, logging, CORS, metrics, rate
// limit, API key.
func (s *Server) middlewareChain(cfg Config) http.Handler {
	var handler http.Handler = s.router
	handler = NewAPIKeyMiddleware(cfg.APIKey, cfg.APIKeyHeader).Handler(handler)
	handler = NewRateLimitMiddleware(s.limiter, s.logger).Handler(handler)
	handler = metrics.WithHTTP(handler)
	handler = NewCORSMiddleware(cfg.CORSOrigins).Handler(handler)
	handler = NewLoggingMiddleware(s.logger).Handler(handler)
	handler = NewRecoveryMiddleware(s.logger).Handler(handler)
	return handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Service endpoints (public)
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)
	if s.metricsHandler != nil {
		s.router.Handle("GET /metrics", s.metricsHandler)
	}

	// OAuth lifecycle, per provider. The callback is public: providers
	// redirect the user's browser there without headers.
	s.router.HandleFunc("GET /auth/{provider}/connect", s.handleConnect)
	s.router.HandleFunc("GET /auth/{provider}/callback", s.handleCallback)
	s.router.HandleFunc("POST /auth/{provider}/disconnect", s.handleDisconnect)
	s.router.HandleFunc("GET /auth/{provider}/is_connected", s.handleIsConnected)
	s.router.HandleFunc("GET /auth/{provider}/token_validity", s.handleTokenValidity)
	s.router.HandleFunc("POST /auth/{provider}/refresh_token", s.handleRefreshToken)

	// Social operations, per provider
	s.router.HandleFunc("GET /{provider}/user_account", s.handleUserAccount)
	s.router.HandleFunc("POST /{provider}/post", s.handlePost)
	s.router.HandleFunc("POST /{provider}/delete_post", s.handleDeletePost)
	s.router.HandleFunc("GET /{provider}/token_validity", s.handleSocialTokenValidity)
}

// handleRoot godoc
// @Summary      Service banner
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "telepost",
		"version": s.version,
	})
}

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks database and limiter connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "docs unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
