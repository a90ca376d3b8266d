package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foundry-social/foundry/internal/api/auth"
	"github.com/foundry-social/foundry/internal/models"
	"github.com/foundry-social/foundry/internal/notify"
	"github.com/foundry-social/foundry/internal/storage"
)

// testEnv wires a server against real SQLite storage.
type testEnv struct {
	server   *httptest.Server
	store    *storage.SQLiteStorage
	notifier *notify.Dispatcher
	jwt      *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Open(); err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier := notify.NewDispatcher(store.Notifications(), 64)
	t.Cleanup(notifier.Close)

	cfg := &Config{
		Address:          ":0",
		JWTSecret:        []byte("test-secret-key"),
		AccessTokenTTL:   time.Hour,
		RateLimitPerIP:   1000,
		RateLimitPerUser: 1000,
	}
	srv, err := New(cfg, store, notifier)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{
		server:   ts,
		store:    store,
		notifier: notifier,
		jwt:      auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL),
	}
}

func (e *testEnv) createUser(t *testing.T, username, firstName, lastName string) (*models.User, string) {
	t.Helper()

	user := models.NewUser(username, username+"@example.com")
	user.ID = uuid.New().String()
	user.FirstName = firstName
	user.LastName = lastName
	user.PasswordHash = "unused"
	if err := e.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := e.jwt.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// waitForNotifications polls until the user has at least n
// notifications or the deadline passes. Delivery is asynchronous.
func (e *testEnv) waitForNotifications(t *testing.T, userID string, n int) []*models.Notification {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		list, err := e.store.Notifications().ListByUser(context.Background(), userID)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(list) >= n {
			return list
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications for %s", n, userID)
	return nil
}

func TestConnectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", "Alice", "Ng")
	bob, bobToken := env.createUser(t, "bob", "Bob", "Reyes")

	// Alice sends a request to Bob.
	resp := env.do(t, http.MethodPost, "/api/v1/connections", aliceToken, map[string]any{
		"recipientId": bob.ID,
		"message":     "Let's build together",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	conn := decodeBody[models.Connection](t, resp)
	if conn.Status != models.ConnectionPending {
		t.Fatalf("status = %s, want pending", conn.Status)
	}

	// A duplicate conflicts.
	resp = env.do(t, http.MethodPost, "/api/v1/connections", aliceToken, map[string]any{
		"recipientId": bob.ID,
		"message":     "again",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}

	// Bob sees it in his received listing, enriched.
	resp = env.do(t, http.MethodGet, "/api/v1/connections?type=received", bobToken, nil)
	received := decodeBody[[]models.EnrichedConnection](t, resp)
	if len(received) != 1 {
		t.Fatalf("len(received) = %d, want 1", len(received))
	}
	if received[0].RequesterName != "Alice Ng" {
		t.Errorf("requester_name = %q", received[0].RequesterName)
	}

	// Alice cannot respond to her own request.
	resp = env.do(t, http.MethodPatch, "/api/v1/connections/"+conn.ID, aliceToken, map[string]any{
		"status": "accepted",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("requester respond status = %d, want 403", resp.StatusCode)
	}

	// Bob accepts.
	resp = env.do(t, http.MethodPatch, "/api/v1/connections/"+conn.ID, bobToken, map[string]any{
		"status": "accepted",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("respond status = %d", resp.StatusCode)
	}
	updated := decodeBody[models.Connection](t, resp)
	if updated.Status != models.ConnectionAccepted {
		t.Errorf("status = %s, want accepted", updated.Status)
	}

	// Accepting again fails; the state is terminal.
	resp = env.do(t, http.MethodPatch, "/api/v1/connections/"+conn.ID, bobToken, map[string]any{
		"status": "declined",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("repeat respond status = %d, want 400", resp.StatusCode)
	}

	// Both sides got notified: Bob of the request, Alice of the accept.
	bobNotifs := env.waitForNotifications(t, bob.ID, 1)
	if bobNotifs[0].Type != models.NotificationConnectionRequest {
		t.Errorf("bob notification type = %s", bobNotifs[0].Type)
	}
	aliceNotifs := env.waitForNotifications(t, alice.ID, 1)
	if aliceNotifs[0].Type != models.NotificationConnectionAccepted {
		t.Errorf("alice notification type = %s", aliceNotifs[0].Type)
	}
	if aliceNotifs[0].ActorName != "Bob Reyes" {
		t.Errorf("actor_name = %q", aliceNotifs[0].ActorName)
	}
}

func TestNotificationInboxFlow(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", "Alice", "Ng")
	bob, _ := env.createUser(t, "bob", "Bob", "Reyes")

	// Seed a notification for Alice directly.
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    alice.ID,
		Type:      models.NotificationConnectionRequest,
		ActorName: bob.FirstName + " " + bob.LastName,
		CreatedAt: time.Now(),
	}
	if err := env.store.Notifications().Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/v1/notifications", aliceToken, nil)
	list := decodeBody[[]models.Notification](t, resp)
	if len(list) != 1 || list[0].Read {
		t.Fatalf("list = %+v", list)
	}

	resp = env.do(t, http.MethodPatch, "/api/v1/notifications", aliceToken, map[string]any{
		"ids": []string{n.ID},
	})
	result := decodeBody[map[string]bool](t, resp)
	if !result["success"] {
		t.Error("mark read success = false")
	}

	resp = env.do(t, http.MethodGet, "/api/v1/notifications", aliceToken, nil)
	list = decodeBody[[]models.Notification](t, resp)
	if !list[0].Read || list[0].SeenAt == nil {
		t.Errorf("notification = %+v, want read with seen_at", list[0])
	}

	resp = env.do(t, http.MethodDelete, "/api/v1/notifications?id="+n.ID, aliceToken, nil)
	result = decodeBody[map[string]bool](t, resp)
	if !result["success"] {
		t.Error("delete success = false")
	}

	resp = env.do(t, http.MethodGet, "/api/v1/notifications", aliceToken, nil)
	list = decodeBody[[]models.Notification](t, resp)
	if len(list) != 0 {
		t.Errorf("len(list) = %d, want 0 after delete", len(list))
	}
}

func TestIdeaMatchFlow(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.createUser(t, "alice", "Alice", "Ng")
	_, bobToken := env.createUser(t, "bob", "Bob", "Reyes")

	// Bob posts an idea seeking a co-founder.
	resp := env.do(t, http.MethodPost, "/api/v1/ideas", bobToken, map[string]any{
		"title":                   "Solar drones",
		"lookingForCofounder":     true,
		"cofounderSkillsNeeded":   []string{"Go", "Embedded"},
		"cofounderRolesNeeded":    []string{"CTO"},
		"cofounderTimeCommitment": "Full-time",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create idea status = %d", resp.StatusCode)
	}
	idea := decodeBody[models.Idea](t, resp)

	// Alice without a profile sees no match.
	resp = env.do(t, http.MethodGet, "/api/v1/ideas/"+idea.ID, aliceToken, nil)
	view := decodeBody[map[string]any](t, resp)
	if _, ok := view["match"]; ok {
		t.Error("match present without a profile")
	}

	// Alice fills in her profile and gets scored.
	resp = env.do(t, http.MethodPut, "/api/v1/profile", aliceToken, map[string]any{
		"skills":       []string{"Go", "Embedded"},
		"lookingFor":   []string{"CTO"},
		"availability": "Full-time",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/ideas/"+idea.ID, aliceToken, nil)
	view = decodeBody[map[string]any](t, resp)
	m, ok := view["match"].(map[string]any)
	if !ok {
		t.Fatalf("match missing: %v", view)
	}
	if m["percentage"] != float64(100) {
		t.Errorf("percentage = %v, want 100", m["percentage"])
	}

	// The owner never sees a match on their own idea.
	resp = env.do(t, http.MethodGet, "/api/v1/ideas/"+idea.ID, bobToken, nil)
	view = decodeBody[map[string]any](t, resp)
	if _, ok := view["match"]; ok {
		t.Error("owner received a match score")
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/connections"},
		{http.MethodPost, "/api/v1/connections"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/ideas"},
		{http.MethodGet, "/api/v1/profile"},
	}
	for _, p := range paths {
		resp := env.do(t, p.method, p.path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", p.method, p.path, resp.StatusCode)
		}
	}

	// Health stays public.
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.NewUser("carol", "carol@example.com")
	user.ID = uuid.New().String()
	user.PasswordHash = hash
	if err := env.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "carol",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	body := decodeBody[map[string]any](t, resp)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("no access token in response")
	}
	if u, ok := body["user"].(map[string]any); !ok || u["username"] != "carol" {
		t.Errorf("user = %v", body["user"])
	}
	if _, ok := body["user"].(map[string]any)["password_hash"]; ok {
		t.Error("password hash leaked in login response")
	}

	// The minted token works against protected routes.
	resp = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("profile status = %d, want 404 for empty profile", resp.StatusCode)
	}

	// Wrong password is rejected.
	resp = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "carol",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}
}
