package notifications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/foundry-social/foundry/internal/models"
)

type mockNotificationRepo struct {
	notifications map[string]*models.Notification
	purgeErr      error
	purgeCutoffs  []time.Time
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockNotificationRepo) ListUnreadIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			ids = append(ids, n.ID)
		}
	}
	return ids, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID string, ids []string, seenAt time.Time) error {
	for _, id := range ids {
		n, ok := m.notifications[id]
		if !ok || n.UserID != userID {
			continue
		}
		n.Read = true
		if n.SeenAt == nil {
			t := seenAt
			n.SeenAt = &t
		}
	}
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	n, ok := m.notifications[id]
	if ok && n.UserID == userID {
		delete(m.notifications, id)
	}
	return nil
}

func (m *mockNotificationRepo) PurgeSeenBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	m.purgeCutoffs = append(m.purgeCutoffs, cutoff)
	if m.purgeErr != nil {
		return 0, m.purgeErr
	}
	var purged int64
	for id, n := range m.notifications {
		if n.UserID == userID && n.SeenAt != nil && n.SeenAt.Before(cutoff) {
			delete(m.notifications, id)
			purged++
		}
	}
	return purged, nil
}

func newTestService() (*Service, *mockNotificationRepo) {
	repo := &mockNotificationRepo{notifications: map[string]*models.Notification{}}
	return NewService(repo), repo
}

func addNotification(repo *mockNotificationRepo, id, userID string, createdAt time.Time, seenAt *time.Time) {
	repo.notifications[id] = &models.Notification{
		ID:        id,
		UserID:    userID,
		Type:      models.NotificationConnectionRequest,
		Read:      seenAt != nil,
		SeenAt:    seenAt,
		CreatedAt: createdAt,
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, repo := newTestService()
	now := time.Now()

	addNotification(repo, "old", "alice", now.Add(-2*time.Hour), nil)
	addNotification(repo, "new", "alice", now, nil)
	addNotification(repo, "other", "bob", now, nil)

	list, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "old" {
		t.Errorf("order = [%s, %s], want newest first", list[0].ID, list[1].ID)
	}
}

func TestList_PurgesSeenBeyondRetention(t *testing.T) {
	svc, repo := newTestService()
	now := time.Now()

	oldSeen := now.Add(-8 * 24 * time.Hour)
	recentSeen := now.Add(-time.Hour)
	addNotification(repo, "expired", "alice", now.Add(-9*24*time.Hour), &oldSeen)
	addNotification(repo, "seen-recently", "alice", now.Add(-2*24*time.Hour), &recentSeen)
	addNotification(repo, "never-seen", "alice", now.Add(-30*24*time.Hour), nil)

	list, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2 after purge", len(list))
	}
	for _, n := range list {
		if n.ID == "expired" {
			t.Error("expired notification survived listing")
		}
	}

	if len(repo.purgeCutoffs) != 1 {
		t.Fatalf("purge calls = %d, want 1", len(repo.purgeCutoffs))
	}
	wantCutoff := now.Add(-RetentionWindow)
	if repo.purgeCutoffs[0].Sub(wantCutoff).Abs() > time.Minute {
		t.Errorf("cutoff = %v, want ~%v", repo.purgeCutoffs[0], wantCutoff)
	}
}

func TestList_PurgeFailureDoesNotFailListing(t *testing.T) {
	svc, repo := newTestService()
	repo.purgeErr = errors.New("locked")
	addNotification(repo, "n1", "alice", time.Now(), nil)

	list, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService()

	list, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil {
		t.Error("list returned nil, want empty slice")
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, repo := newTestService()
	addNotification(repo, "n1", "alice", time.Now(), nil)
	ctx := context.Background()

	if err := svc.MarkRead(ctx, "alice", []string{"n1"}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	firstSeen := *repo.notifications["n1"].SeenAt

	if err := svc.MarkRead(ctx, "alice", []string{"n1"}); err != nil {
		t.Fatalf("second mark read: %v", err)
	}
	if !repo.notifications["n1"].SeenAt.Equal(firstSeen) {
		t.Error("seen_at changed on repeated mark read")
	}

	// Missing and foreign ids are ignored.
	if err := svc.MarkRead(ctx, "alice", []string{"missing"}); err != nil {
		t.Errorf("mark missing: %v", err)
	}
	if err := svc.MarkRead(ctx, "bob", []string{"n1"}); err != nil {
		t.Errorf("foreign mark: %v", err)
	}
	if repo.notifications["n1"].UserID != "alice" || !repo.notifications["n1"].Read {
		t.Error("notification state corrupted")
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, repo := newTestService()
	now := time.Now()
	addNotification(repo, "n1", "alice", now, nil)
	addNotification(repo, "n2", "alice", now, nil)
	seen := now.Add(-time.Hour)
	addNotification(repo, "n3", "alice", now, &seen)
	addNotification(repo, "n4", "bob", now, nil)

	if err := svc.MarkAllRead(context.Background(), "alice"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	for _, id := range []string{"n1", "n2", "n3"} {
		if !repo.notifications[id].Read {
			t.Errorf("%s not read", id)
		}
	}
	if repo.notifications["n4"].Read {
		t.Error("foreign notification marked read")
	}
	// Already-seen notifications keep their timestamp.
	if !repo.notifications["n3"].SeenAt.Equal(seen) {
		t.Error("seen_at changed for already-read notification")
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService()
	addNotification(repo, "n1", "alice", time.Now(), nil)
	ctx := context.Background()

	if err := svc.Delete(ctx, "bob", "n1"); err != nil {
		t.Fatalf("foreign delete: %v", err)
	}
	if _, ok := repo.notifications["n1"]; !ok {
		t.Fatal("foreign delete removed notification")
	}

	if err := svc.Delete(ctx, "alice", "n1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.notifications["n1"]; ok {
		t.Error("notification not deleted")
	}

	if err := svc.Delete(ctx, "alice", "n1"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}
