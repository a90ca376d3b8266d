// Package connections implements the connection request lifecycle:
// creation, response, and listing. A connection is a directed request
// between two users; the only transitions are pending to accepted and
// pending to declined.
package connections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foundry-social/foundry/internal/metrics"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/storage"
)

// Notifier receives connection lifecycle events. Delivery is
// best-effort; implementations must never block the caller.
type Notifier interface {
	ConnectionRequested(conn *models.Connection, actor *models.User, ideaTitle string)
	ConnectionAccepted(conn *models.Connection, actor *models.User, ideaTitle string)
	ConnectionDeclined(conn *models.Connection, actor *models.User, ideaTitle string)
}

// Service implements connection request operations.
type Service struct {
	users    storage.UserRepository
	ideas    storage.IdeaRepository
	conns    storage.ConnectionRepository
	notifier Notifier
}

// NewService creates a connection service.
func NewService(users storage.UserRepository, ideas storage.IdeaRepository, conns storage.ConnectionRepository, notifier Notifier) *Service {
	return &Service{
		users:    users,
		ideas:    ideas,
		conns:    conns,
		notifier: notifier,
	}
}

// CreateRequestInput carries the caller-supplied fields of a new
// connection request. The requester always comes from the
// authenticated identity, never from input.
type CreateRequestInput struct {
	RecipientID string
	IdeaID      string
	Message     string
}

// CreateRequest creates a pending connection from requesterID to the
// recipient. At most one connection may exist per directed pair; a
// second attempt fails with ConflictError regardless of the first
// connection's status or idea.
func (s *Service) CreateRequest(ctx context.Context, requesterID string, in CreateRequestInput) (*models.Connection, error) {
	if in.RecipientID == requesterID {
		return nil, ErrSelfReference
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}
	if requester == nil {
		return nil, ErrNotFound
	}

	recipient, err := s.users.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	if recipient == nil {
		return nil, ErrRecipientNotFound
	}

	var ideaTitle string
	if in.IdeaID != "" {
		idea, err := s.ideas.GetByID(ctx, in.IdeaID)
		if err != nil {
			return nil, fmt.Errorf("get idea: %w", err)
		}
		if idea == nil {
			return nil, ErrIdeaNotFound
		}
		ideaTitle = idea.Title
	}

	existing, err := s.conns.GetByPair(ctx, requesterID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("check existing connection: %w", err)
	}
	if existing != nil {
		metrics.ConnectionsConflictsTotal.Inc()
		return nil, &ConflictError{Status: existing.Status}
	}

	now := time.Now()
	conn := &models.Connection{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: in.RecipientID,
		IdeaID:      in.IdeaID,
		Status:      models.ConnectionPending,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.conns.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}

	metrics.ConnectionsCreatedTotal.Inc()
	s.notifier.ConnectionRequested(conn, requester, ideaTitle)

	return conn, nil
}

// Respond resolves a pending connection as accepted or declined. Only
// the recipient may respond, and a terminal connection cannot change
// again. The rejection reason is recorded only on decline.
func (s *Service) Respond(ctx context.Context, actorID, connectionID string, decision models.ConnectionStatus, rejectionReason string) (*models.Connection, error) {
	if decision != models.ConnectionAccepted && decision != models.ConnectionDeclined {
		return nil, ErrInvalidDecision
	}

	conn, err := s.conns.GetByID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	if conn == nil {
		return nil, ErrNotFound
	}
	if conn.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	if conn.Status.IsTerminal() {
		return nil, &AlreadyResolvedError{Status: conn.Status}
	}

	reason := ""
	if decision == models.ConnectionDeclined {
		reason = strings.TrimSpace(rejectionReason)
	}

	now := time.Now()
	ok, err := s.conns.ResolvePending(ctx, connectionID, decision, reason, now)
	if err != nil {
		return nil, fmt.Errorf("resolve connection: %w", err)
	}
	if !ok {
		// Lost the race; report the status that won.
		current, err := s.conns.GetByID(ctx, connectionID)
		if err != nil {
			return nil, fmt.Errorf("get connection after race: %w", err)
		}
		if current == nil {
			return nil, ErrNotFound
		}
		return nil, &AlreadyResolvedError{Status: current.Status}
	}

	conn.Status = decision
	conn.RejectionReason = reason
	conn.UpdatedAt = now

	metrics.ConnectionsResolvedTotal.WithLabelValues(string(decision)).Inc()

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil || actor == nil {
		// The response itself succeeded; notify with a placeholder.
		actor = &models.User{}
	}
	var ideaTitle string
	if conn.IdeaID != "" {
		if idea, err := s.ideas.GetByID(ctx, conn.IdeaID); err == nil && idea != nil {
			ideaTitle = idea.Title
		}
	}

	if decision == models.ConnectionAccepted {
		s.notifier.ConnectionAccepted(conn, actor, ideaTitle)
	} else {
		s.notifier.ConnectionDeclined(conn, actor, ideaTitle)
	}

	return conn, nil
}

// List returns the user's connections, optionally narrowed by filter.
func (s *Service) List(ctx context.Context, userID string, filter storage.ConnectionFilter) ([]*models.Connection, error) {
	conns, err := s.conns.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	if conns == nil {
		conns = []*models.Connection{}
	}
	return conns, nil
}

// ListReceived returns connections where the user is the recipient,
// decorated with requester and idea display fields. Connections whose
// requester has since been deleted fall back to empty display fields
// rather than being dropped.
func (s *Service) ListReceived(ctx context.Context, userID, ideaID string) ([]*models.EnrichedConnection, error) {
	conns, err := s.conns.ListForUser(ctx, userID, storage.ConnectionFilter{
		Role:   storage.ConnectionsReceived,
		IdeaID: ideaID,
	})
	if err != nil {
		return nil, fmt.Errorf("list received connections: %w", err)
	}

	userIDs := make([]string, 0, len(conns))
	ideaIDs := make([]string, 0, len(conns))
	for _, c := range conns {
		userIDs = append(userIDs, c.RequesterID)
		if c.IdeaID != "" {
			ideaIDs = append(ideaIDs, c.IdeaID)
		}
	}

	usersByID := make(map[string]*models.User)
	if users, err := s.users.GetByIDs(ctx, userIDs); err == nil {
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}
	ideasByID := make(map[string]*models.Idea)
	if ideas, err := s.ideas.GetByIDs(ctx, ideaIDs); err == nil {
		for _, i := range ideas {
			ideasByID[i.ID] = i
		}
	}

	enriched := make([]*models.EnrichedConnection, 0, len(conns))
	for _, c := range conns {
		e := &models.EnrichedConnection{Connection: *c}
		if u, ok := usersByID[c.RequesterID]; ok {
			e.RequesterName = u.DisplayName()
			e.RequesterUsername = u.Username
		}
		if i, ok := ideasByID[c.IdeaID]; ok {
			e.IdeaTitle = i.Title
		}
		enriched = append(enriched, e)
	}
	return enriched, nil
}
