package httpapi

import (
	"errors"
	"net/http"

	"launchpad/internal/auth"
	"launchpad/internal/model"
)

type addUserRequest struct {
	Username        string     `json:"username"`
	Password        string     `json:"password"`
	Role            model.Role `json:"role"`
	AllowConcurrent bool       `json:"allowConcurrent"`
}

type toggleConcurrentRequest struct {
	AllowConcurrent bool `json:"allowConcurrent"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.auth.AddUser(r.Context(), req.Username, req.Password, req.Role, req.AllowConcurrent)
	switch {
	case err == nil:
		writeSuccess(w)
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusBadRequest, "", "User exists")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "", "username and password are required")
	default:
		s.log.ErrorContext(r.Context(), "add user failed", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to add user")
	}
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	err := s.auth.DeleteUser(r.Context(), username)
	switch {
	case err == nil:
		writeSuccess(w)
	case errors.Is(err, auth.ErrImmutableAccount):
		writeError(w, http.StatusBadRequest, "", "Cannot delete admin")
	default:
		s.log.ErrorContext(r.Context(), "delete user failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to delete user")
	}
}

func (s *Server) handleToggleConcurrent(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	var req toggleConcurrentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.auth.ToggleConcurrentExemption(r.Context(), username, req.AllowConcurrent)
	switch {
	case err == nil:
		writeSuccess(w)
	case errors.Is(err, auth.ErrImmutableAccount):
		writeError(w, http.StatusBadRequest, "", "Admin settings are fixed")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "", "User not found")
	default:
		s.log.ErrorContext(r.Context(), "toggle concurrent failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to update user")
	}
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if s.auth.ResetSession(r.PathValue("username")) {
		writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Session reset"})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: false, Message: "User not active"})
}
