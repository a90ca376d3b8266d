// Package connections exposes the connection request HTTP endpoints.
package connections

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundry-social/foundry/internal/api/middleware"
	connsvc "github.com/foundry-social/foundry/internal/connections"
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
	errCodeForbidden        = "FORBIDDEN"
	errCodeNotFound         = "NOT_FOUND"
	errCodeConflict         = "CONFLICT"
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

// Service is the connection lifecycle surface the handler needs.
type Service interface {
	CreateRequest(ctx context.Context, requesterID string, in connsvc.CreateRequestInput) (*models.Connection, error)
	Respond(ctx context.Context, actorID, connectionID string, decision models.ConnectionStatus, rejectionReason string) (*models.Connection, error)
	List(ctx context.Context, userID string, filter storage.ConnectionFilter) ([]*models.Connection, error)
	ListReceived(ctx context.Context, userID, ideaID string) ([]*models.EnrichedConnection, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Request types
type CreateRequest struct {
	RecipientID string `json:"recipientId"`
	IdeaID      string `json:"ideaId,omitempty"`
	Message     string `json:"message"`
}

type RespondRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// Create creates a new pending connection request. The requester is
// always the authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if req.RecipientID == "" {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "recipientId is required")
		return
	}

	userID := middleware.GetUserID(r.Context())
	conn, err := h.service.CreateRequest(r.Context(), userID, connsvc.CreateRequestInput{
		RecipientID: req.RecipientID,
		IdeaID:      req.IdeaID,
		Message:     req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("connection created: %s -> %s (%s)", conn.RequesterID, conn.RecipientID, conn.ID)
	jsonOK(w, http.StatusCreated, conn)
}

// List returns the user's connections. type=sent narrows to requests
// the user sent; type=received returns requests addressed to the
// user, decorated with requester and idea display fields; any other
// value lists both sides. ideaId narrows either listing to one idea.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	listType := r.URL.Query().Get("type")
	ideaID := r.URL.Query().Get("ideaId")

	switch listType {
	case storage.ConnectionsReceived:
		received, err := h.service.ListReceived(ctx, userID, ideaID)
		if err != nil {
			log.Printf("list received connections error: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
			return
		}
		jsonOK(w, http.StatusOK, received)
	default:
		// Anything except "received" and "sent" means both sides.
		role := ""
		if listType == storage.ConnectionsSent {
			role = storage.ConnectionsSent
		}
		conns, err := h.service.List(ctx, userID, storage.ConnectionFilter{Role: role, IdeaID: ideaID})
		if err != nil {
			log.Printf("list connections error: %v", err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
			return
		}
		jsonOK(w, http.StatusOK, conns)
	}
}

// Respond resolves a pending connection request as accepted or
// declined. Only the recipient may respond.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "connection id required")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())
	conn, err := h.service.Respond(r.Context(), userID, id, models.ConnectionStatus(req.Status), req.RejectionReason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("connection %s: %s by %s", conn.Status, conn.ID, userID)
	jsonOK(w, http.StatusOK, conn)
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *connsvc.ConflictError
	var resolved *connsvc.AlreadyResolvedError

	switch {
	case errors.Is(err, connsvc.ErrMessageRequired),
		errors.Is(err, connsvc.ErrSelfReference),
		errors.Is(err, connsvc.ErrInvalidDecision),
		// A create pointing at a nonexistent recipient or idea is bad
		// input, not a missing resource; 404 is reserved for the
		// connection itself.
		errors.Is(err, connsvc.ErrRecipientNotFound),
		errors.Is(err, connsvc.ErrIdeaNotFound):
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
	case errors.As(err, &resolved):
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, err.Error())
	case errors.Is(err, connsvc.ErrNotRecipient):
		jsonError(w, http.StatusForbidden, errCodeForbidden, err.Error())
	case errors.Is(err, connsvc.ErrNotFound):
		jsonError(w, http.StatusNotFound, errCodeNotFound, err.Error())
	case errors.As(err, &conflict):
		jsonError(w, http.StatusConflict, errCodeConflict, err.Error())
	default:
		log.Printf("connection service error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
	}
}
