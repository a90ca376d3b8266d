// Package ideas exposes the idea HTTP endpoints, including the
// co-founder match score computed for the viewing user.
package ideas

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foundry-social/foundry/internal/api/middleware"
	"github.com/foundry-social/foundry/internal/match"
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
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type Handler struct {
	ideas    storage.IdeaRepository
	profiles storage.ProfileRepository
	conns    storage.ConnectionRepository
}

func NewHandler(ideas storage.IdeaRepository, profiles storage.ProfileRepository, conns storage.ConnectionRepository) *Handler {
	return &Handler{ideas: ideas, profiles: profiles, conns: conns}
}

type CreateRequest struct {
	Title                    string   `json:"title"`
	Problem                  string   `json:"problem"`
	Solution                 string   `json:"solution"`
	Tags                     []string `json:"tags"`
	Category                 string   `json:"category"`
	Stage                    string   `json:"stage"`
	LookingForCofounder      bool     `json:"lookingForCofounder"`
	CofounderSkillsNeeded    []string `json:"cofounderSkillsNeeded"`
	CofounderRolesNeeded     []string `json:"cofounderRolesNeeded"`
	CofounderExperienceLevel string   `json:"cofounderExperienceLevel"`
	CofounderTimeCommitment  string   `json:"cofounderTimeCommitment"`
}

// IdeaResponse is an idea plus the viewer-specific decorations: the
// match score and the status of any existing connection between the
// viewer and the idea's owner. Match is omitted when the idea is not
// looking for a co-founder, the viewer owns the idea, or the viewer's
// profile has no match signal.
type IdeaResponse struct {
	*models.Idea
	Match            *match.Result           `json:"match,omitempty"`
	ConnectionStatus models.ConnectionStatus `json:"connection_status,omitempty"`
}

// Create posts a new idea owned by the authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "title is required")
		return
	}

	now := time.Now()
	idea := &models.Idea{
		ID:                       uuid.New().String(),
		UserID:                   middleware.GetUserID(r.Context()),
		Title:                    title,
		Problem:                  strings.TrimSpace(req.Problem),
		Solution:                 strings.TrimSpace(req.Solution),
		Tags:                     req.Tags,
		Category:                 req.Category,
		Stage:                    req.Stage,
		LookingForCofounder:      req.LookingForCofounder,
		CofounderSkillsNeeded:    req.CofounderSkillsNeeded,
		CofounderRolesNeeded:     req.CofounderRolesNeeded,
		CofounderExperienceLevel: req.CofounderExperienceLevel,
		CofounderTimeCommitment:  req.CofounderTimeCommitment,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := h.ideas.Create(r.Context(), idea); err != nil {
		log.Printf("create idea error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("idea created: %s (%s)", idea.Title, idea.ID)
	jsonOK(w, http.StatusCreated, idea)
}

// List returns the authenticated user's ideas.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ideas, err := h.ideas.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("list ideas error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if ideas == nil {
		ideas = []*models.Idea{}
	}
	jsonOK(w, http.StatusOK, ideas)
}

// GetByID returns an idea. When the idea seeks a co-founder and the
// viewer is not its owner, the response carries the viewer's match
// score; a viewer without a scoreable profile gets no match at all.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "idea id required")
		return
	}

	ctx := r.Context()
	idea, err := h.ideas.GetByID(ctx, id)
	if err != nil {
		log.Printf("get idea error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if idea == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "idea not found")
		return
	}

	resp := &IdeaResponse{Idea: idea}

	userID := middleware.GetUserID(ctx)
	if idea.LookingForCofounder && userID != idea.UserID {
		profile, err := h.profiles.GetByUserID(ctx, userID)
		if err != nil {
			// Match scoring is a decoration; the idea still renders.
			log.Printf("get profile for match error: %v", err)
		} else {
			resp.Match = match.Compute(profile, idea.Requirements())
		}
		resp.ConnectionStatus = h.connectionStatus(ctx, userID, idea.UserID)
	}

	jsonOK(w, http.StatusOK, resp)
}

// connectionStatus reports the status of the connection between the
// viewer and the idea's owner in either direction, or empty when the
// two are not connected. Lookup failures degrade to "not connected".
func (h *Handler) connectionStatus(ctx context.Context, viewerID, ownerID string) models.ConnectionStatus {
	for _, pair := range [][2]string{{viewerID, ownerID}, {ownerID, viewerID}} {
		conn, err := h.conns.GetByPair(ctx, pair[0], pair[1])
		if err != nil {
			log.Printf("get connection for idea view error: %v", err)
			return ""
		}
		if conn != nil {
			return conn.Status
		}
	}
	return ""
}
