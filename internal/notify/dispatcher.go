// Package notify delivers in-app notifications for connection
// lifecycle events. Delivery is asynchronous and best-effort: the
// operations that trigger notifications never fail or block because a
// notification could not be written.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foundry-social/foundry/internal/metrics"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/storage"
)

const (
	// DefaultQueueSize bounds the in-flight notification queue.
	DefaultQueueSize = 256

	// deliveryTimeout bounds a single storage write.
	deliveryTimeout = 5 * time.Second
)

// Dispatcher queues notification records and writes them to storage
// from a background worker. When the queue is full, new notifications
// are dropped and counted rather than blocking the caller.
type Dispatcher struct {
	repo  storage.NotificationRepository
	queue chan *models.Notification
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher and starts its delivery worker.
func NewDispatcher(repo storage.NotificationRepository, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		repo:  repo,
		queue: make(chan *models.Notification, queueSize),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// Close stops accepting notifications and waits for the queue to
// drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

// ConnectionRequested notifies the recipient of a new connection
// request. Actor is the requester; ideaTitle may be empty when the
// request is not scoped to an idea.
func (d *Dispatcher) ConnectionRequested(conn *models.Connection, actor *models.User, ideaTitle string) {
	d.enqueue(&models.Notification{
		ID:           uuid.New().String(),
		UserID:       conn.RecipientID,
		Type:         models.NotificationConnectionRequest,
		ConnectionID: conn.ID,
		IdeaID:       conn.IdeaID,
		ActorName:    actor.DisplayName(),
		IdeaTitle:    ideaTitle,
		Message:      conn.Message,
		CreatedAt:    time.Now(),
	})
}

// ConnectionAccepted notifies the requester that their request was
// accepted. Actor is the recipient who accepted.
func (d *Dispatcher) ConnectionAccepted(conn *models.Connection, actor *models.User, ideaTitle string) {
	d.enqueue(&models.Notification{
		ID:           uuid.New().String(),
		UserID:       conn.RequesterID,
		Type:         models.NotificationConnectionAccepted,
		ConnectionID: conn.ID,
		IdeaID:       conn.IdeaID,
		ActorName:    actor.DisplayName(),
		IdeaTitle:    ideaTitle,
		CreatedAt:    time.Now(),
	})
}

// ConnectionDeclined notifies the requester that their request was
// declined. The rejection reason, when given, rides in the message
// field.
func (d *Dispatcher) ConnectionDeclined(conn *models.Connection, actor *models.User, ideaTitle string) {
	d.enqueue(&models.Notification{
		ID:           uuid.New().String(),
		UserID:       conn.RequesterID,
		Type:         models.NotificationConnectionDeclined,
		ConnectionID: conn.ID,
		IdeaID:       conn.IdeaID,
		ActorName:    actor.DisplayName(),
		IdeaTitle:    ideaTitle,
		Message:      conn.RejectionReason,
		CreatedAt:    time.Now(),
	})
}

func (d *Dispatcher) enqueue(n *models.Notification) {
	select {
	case d.queue <- n:
		metrics.NotifyEnqueuedTotal.Inc()
	default:
		metrics.NotifyDroppedTotal.Inc()
		log.Printf("notify: queue full, dropping %s notification for user %s", n.Type, n.UserID)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := d.repo.Create(ctx, n)
		cancel()
		if err != nil {
			metrics.NotifyFailuresTotal.Inc()
			log.Printf("notify: failed to store %s notification for user %s: %v", n.Type, n.UserID, err)
			continue
		}
		metrics.NotifyDeliveredTotal.Inc()
	}
}
