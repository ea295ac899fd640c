package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saedev/sae-auth/internal/server/users"
	"github.com/saedev/sae-auth/internal/shared"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *users.Summary `json:"user"`
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// updateAvatarRequest uses a pointer so a missing field can be told apart
// from an explicit empty string, which is a legal avatar value.
type updateAvatarRequest struct {
	Avatar *string `json:"avatar"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type avatarResponse struct {
	Message string `json:"message"`
	Avatar  string `json:"avatar"`
}

// decodeJSON parses the request body into dst and reports malformed bodies
// as a validation failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid request body", shared.ErrorValidation))
		return false
	}
	return true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "SAE API - Sistema de Autenticación Educativa"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	view, err := s.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", view.ID)
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "user_id", res.User.ID)
	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		User:        res.User,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.writeError(w, r, shared.ErrorUnauthenticated)
		return
	}
	s.respondJSON(w, http.StatusOK, user.PublicView())
}

// handleGetProfile has the same contract as handleVerify; clients call
// them at different points (initial session check vs. profile fetch).
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.writeError(w, r, shared.ErrorUnauthenticated)
		return
	}
	s.respondJSON(w, http.StatusOK, user.PublicView())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.writeError(w, r, shared.ErrorUnauthenticated)
		return
	}

	var req updateProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	view, err := s.userService.UpdateProfile(r.Context(), user, req.Username, req.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.writeError(w, r, shared.ErrorUnauthenticated)
		return
	}

	var req updatePasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.userService.UpdatePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "password updated", "user_id", user.ID)
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.writeError(w, r, shared.ErrorUnauthenticated)
		return
	}

	var req updateAvatarRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Avatar == nil {
		s.writeError(w, r, fmt.Errorf("%w: avatar is required", shared.ErrorValidation))
		return
	}

	avatar, err := s.userService.UpdateAvatar(r.Context(), user, *req.Avatar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, avatarResponse{
		Message: "Avatar updated successfully",
		Avatar:  avatar,
	})
}
