package handlers

import (
	"net/http"

	"github.com/isdelr/task-manager-be/internal/api/response"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/isdelr/task-manager-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and the current-user lookup.
type AuthHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

type authData struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload validation.RegisterInput
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			log.Info().Str("username", payload.Username).Msg("Registration rejected")
		}
		response.Error(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		response.Error(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	response.OK(w, http.StatusCreated, "User registered successfully", authData{Token: token, User: user})
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload validation.LoginInput
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload)
	if err != nil {
		log.Warn().Err(err).Str("email", validation.NormalizeEmail(payload.Email)).Msg("Failed authentication attempt")
		response.Error(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Login successful", authData{Token: token, User: user})
}

// GetMe returns the authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", map[string]any{"user": user})
}
