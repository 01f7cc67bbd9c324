package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"launchpad/internal/auth"
	"launchpad/internal/model"
)

const codeConcurrentLogin = "CONCURRENT_LOGIN_DETECTED"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	User    loginUser `json:"user"`
	Token   string    `json:"token"`
}

type logoutRequest struct {
	Username string `json:"username"`
}

type verifyResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.auth.Login(r.Context(), req.Username, req.Password, s.clientIP(r))
	if err != nil {
		var cerr *auth.ConcurrentLoginError
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "", "invalid username or password")
		case errors.As(err, &cerr):
			writeError(w, http.StatusForbidden, codeConcurrentLogin,
				fmt.Sprintf("This account is already signed in from IP %s. Signing in from several devices at once is not allowed.", cerr.IP))
		default:
			s.log.ErrorContext(r.Context(), "login failed", "username", req.Username, "error", err)
			writeError(w, http.StatusInternalServerError, "", "login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User:    loginUser{Username: res.Username, Role: res.Role},
		Token:   res.Token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// A missing or unreadable body still logs out nobody and succeeds.
	var req logoutRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Username != "" {
		s.auth.Logout(req.Username)
	}
	writeSuccess(w)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	username, err := s.auth.Verify(bearerToken(r))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, Username: username})
}

// handleChangePassword lets a user change their own password; admins may
// change anyone's.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := usernameFromContext(r.Context())
	if req.Username == "" {
		req.Username = caller
	}
	if req.Username != caller && roleFromContext(r.Context()) != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "cannot change another user's password")
		return
	}

	err := s.auth.ChangePassword(r.Context(), req.Username, req.NewPassword)
	switch {
	case err == nil:
		writeSuccess(w)
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "", "User not found")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "", "new password is required")
	default:
		s.log.ErrorContext(r.Context(), "change password failed", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "", "failed to change password")
	}
}
