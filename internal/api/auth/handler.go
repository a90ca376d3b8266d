package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/foundry-social/foundry/internal/metrics"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/storage"
)

// Handler handles authentication endpoints.
type Handler struct {
	users storage.UserRepository
	jwt   *JWTService
}

// NewHandler creates an auth handler.
func NewHandler(users storage.UserRepository, jwt *JWTService) *Handler {
	return &Handler{users: users, jwt: jwt}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Login authenticates a user by username (or email) and password and
// issues an access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "VALIDATION_FAILED", "username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err == nil && user == nil && strings.Contains(req.Username, "@") {
		user, err = h.users.GetByEmail(r.Context(), req.Username)
	}
	if err != nil {
		log.Printf("login lookup failed for %q: %v", req.Username, err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	if user == nil || !CheckPassword(user.PasswordHash, req.Password) {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		jsonError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(user)
	if err != nil {
		log.Printf("token generation failed for %s: %v", user.ID, err)
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.Inc()

	jsonOK(w, http.StatusOK, loginResponse{
		AccessToken: token,
		ExpiresIn:   h.jwt.TTLSeconds(),
		TokenType:   "Bearer",
		User:        user,
	})
}

func jsonOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
