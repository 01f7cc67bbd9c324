package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"launchpad/internal/wol"
)

type wakeRequest struct {
	MAC string `json:"mac"`
}

type wakeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	var req wakeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if s.wol == nil {
		writeJSON(w, http.StatusServiceUnavailable, wakeResponse{Error: "wake-on-lan is not available"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.wol.Wake(ctx, req.MAC); err != nil {
		if errors.Is(err, wol.ErrInvalidMAC) {
			writeJSON(w, http.StatusBadRequest, wakeResponse{Error: "invalid MAC address"})
			return
		}
		s.log.ErrorContext(r.Context(), "wake failed", "mac", req.MAC, "error", err)
		writeJSON(w, http.StatusInternalServerError, wakeResponse{Error: err.Error()})
		return
	}

	s.log.InfoContext(r.Context(), "magic packet sent", "mac", req.MAC, "by", usernameFromContext(r.Context()))
	writeJSON(w, http.StatusOK, wakeResponse{Success: true})
}
