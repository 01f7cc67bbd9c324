package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"launchpad/internal/auth"
	"launchpad/internal/config"
	"launchpad/internal/store"
)

type waker interface {
	Wake(ctx context.Context, mac string) error
}

type Server struct {
	cfg   config.Config
	auth  *auth.Service
	sites store.ConfigStore
	wol   waker
	log   *slog.Logger
	mux   *http.ServeMux
}

func NewServer(cfg config.Config, svc *auth.Service, sites store.ConfigStore, w waker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		auth:  svc,
		sites: sites,
		wol:   w,
		log:   log,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = recoverMiddleware(s.log, h)
	h = corsMiddleware(s.cfg.CORSOrigins, h)
	h = loggingMiddleware(s.log, h)
	h = requestIDMiddleware(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/verify", s.handleVerify)

	s.mux.Handle("GET /api/config", s.requireSession(http.HandlerFunc(s.handleGetConfig)))
	s.mux.Handle("POST /api/config", s.requireAdmin(http.HandlerFunc(s.handleSaveConfig)))
	s.mux.Handle("POST /api/password", s.requireSession(http.HandlerFunc(s.handleChangePassword)))

	s.mux.Handle("GET /api/users", s.requireAdmin(http.HandlerFunc(s.handleListUsers)))
	s.mux.Handle("POST /api/users", s.requireAdmin(http.HandlerFunc(s.handleAddUser)))
	s.mux.Handle("DELETE /api/users/{username}", s.requireAdmin(http.HandlerFunc(s.handleDeleteUser)))
	s.mux.Handle("POST /api/users/{username}/concurrent", s.requireAdmin(http.HandlerFunc(s.handleToggleConcurrent)))
	s.mux.Handle("POST /api/users/{username}/reset-session", s.requireAdmin(http.HandlerFunc(s.handleResetSession)))

	s.mux.Handle("POST /api/lan/wake", s.requireSession(http.HandlerFunc(s.handleWake)))

	s.registerUI()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
