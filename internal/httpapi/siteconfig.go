package httpapi

import (
	"net/http"

	"launchpad/internal/model"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.sites.GetConfig(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "load site config failed", "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to load config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.SiteConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	if err := s.sites.SaveConfig(r.Context(), cfg); err != nil {
		s.log.ErrorContext(r.Context(), "save site config failed", "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to save config")
		return
	}
	writeSuccess(w)
}
