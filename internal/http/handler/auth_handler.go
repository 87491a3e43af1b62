package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authstack/userauth/internal/http/response"
	"github.com/authstack/userauth/internal/observability"
	"github.com/authstack/userauth/internal/service"
)

type AuthHandler struct {
	auth service.Authenticator
}

func NewAuthHandler(auth service.Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type validateRequest struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required", nil)
		return
	}
	registered, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Error(w, r, http.StatusConflict, "USER_EXISTS", "a user with this email already exists", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not register user", nil)
		return
	}
	observability.Audit(r, "auth.signup", "email", service.NormalizeEmail(req.Email))
	response.JSON(w, r, http.StatusCreated, map[string]any{"registered": registered})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required", nil)
		return
	}
	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password collapse into one answer so
		// the endpoint does not leak which emails are registered.
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not log in", nil)
		return
	}
	observability.Audit(r, "auth.login", "email", service.NormalizeEmail(req.Email))
	response.JSON(w, r, http.StatusOK, map[string]any{"token": token})
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", nil)
		return
	}
	if req.Token == "" {
		response.Error(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "token is required", nil)
		return
	}
	valid, err := h.auth.ValidateToken(r.Context(), req.UserID, req.Token)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not validate token", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"valid": valid})
}
