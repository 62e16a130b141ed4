package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-social/internal/config"
	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/server"
	"github.com/npezzotti/go-social/internal/stats"
)

type SocialApp struct {
	log            *log.Logger
	db             database.SocialRepository
	mux            *http.Server
	ms             *server.MessagingServer
	stats          stats.StatsProvider
	signingKey     []byte
	allowedOrigins []string
}

func NewSocialApp(mux *http.ServeMux, logger *log.Logger, ms *server.MessagingServer, db database.SocialRepository, su stats.StatsProvider, cfg *config.Config) *SocialApp {
	s := &SocialApp{
		log:            logger,
		db:             db,
		ms:             ms,
		stats:          su,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("GET /api/messages", s.authMiddleware(s.getDirectMessages))
	mux.Handle("GET /api/groups/messages", s.authMiddleware(s.getGroupMessages))
	mux.Handle("GET /api/notifications", s.authMiddleware(s.listNotifications))
	mux.Handle("POST /api/notifications", s.authMiddleware(s.createNotification))
	mux.Handle("PUT /api/notifications", s.authMiddleware(s.updateNotification))
	mux.Handle("POST /api/notifications/read", s.authMiddleware(s.markNotificationsRead))
	mux.Handle("POST /api/roster/refresh", s.authMiddleware(s.refreshRoster))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *SocialApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *SocialApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
