// Package profiles exposes the co-founder profile HTTP endpoints.
package profiles

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/foundry-social/foundry/internal/api/middleware"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/storage"
)

// Response helpers
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeNotFound      = "NOT_FOUND"
	errCodeInternalError = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

type Handler struct {
	profiles storage.ProfileRepository
}

func NewHandler(profiles storage.ProfileRepository) *Handler {
	return &Handler{profiles: profiles}
}

type UpdateRequest struct {
	Skills           []string `json:"skills"`
	LookingFor       []string `json:"lookingFor"`
	Availability     string   `json:"availability"`
	ExperienceLevel  string   `json:"experienceLevel"`
	Bio              string   `json:"bio"`
	SeekingCofounder bool     `json:"seekingCofounder"`
}

// Get returns the authenticated user's profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profiles.GetByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("get profile error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if profile == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "profile not found")
		return
	}
	jsonOK(w, profile)
}

// Update writes the authenticated user's profile whole; there is no
// partial update. Blank entries in skills and looking_for are
// dropped.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	now := time.Now()

	profile := &models.Profile{
		UserID:           userID,
		Skills:           cleanList(req.Skills),
		LookingFor:       cleanList(req.LookingFor),
		Availability:     strings.TrimSpace(req.Availability),
		ExperienceLevel:  strings.TrimSpace(req.ExperienceLevel),
		Bio:              strings.TrimSpace(req.Bio),
		SeekingCofounder: req.SeekingCofounder,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if existing, err := h.profiles.GetByUserID(ctx, userID); err == nil && existing != nil {
		profile.CreatedAt = existing.CreatedAt
	}

	if err := h.profiles.Upsert(ctx, profile); err != nil {
		log.Printf("update profile error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("profile updated: %s", userID)
	jsonOK(w, profile)
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
