package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/foundry-social/foundry/internal/api/middleware"
	"github.com/foundry-social/foundry/internal/models"
)

type mockProfileRepo struct {
	profiles map[string]*models.Profile
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return m.profiles[userID], nil
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestGet(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]*models.Profile{
		"alice": {UserID: "alice", Skills: []string{"Go"}},
	}}
	h := NewHandler(repo)

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/v1/profile", nil, "alice"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "alice" || len(resp.Skills) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGet_NotFound(t *testing.T) {
	h := NewHandler(&mockProfileRepo{profiles: map[string]*models.Profile{}})

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/v1/profile", nil, "alice"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]*models.Profile{}}
	h := NewHandler(repo)

	body := []byte(`{
		"skills": [" Go ", "", "SQL"],
		"lookingFor": ["CTO"],
		"availability": "Full-time",
		"experienceLevel": "Senior",
		"seekingCofounder": true
	}`)
	rec := httptest.NewRecorder()
	h.Update(rec, authedRequest(http.MethodPut, "/api/v1/profile", body, "alice"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	stored := repo.profiles["alice"]
	if stored == nil {
		t.Fatal("profile not persisted")
	}
	if !reflect.DeepEqual(stored.Skills, []string{"Go", "SQL"}) {
		t.Errorf("skills = %v, want trimmed with blanks dropped", stored.Skills)
	}
	if !stored.SeekingCofounder {
		t.Error("seeking_cofounder not set")
	}
}

func TestUpdate_PreservesCreatedAt(t *testing.T) {
	created := time.Now().Add(-24 * time.Hour)
	repo := &mockProfileRepo{profiles: map[string]*models.Profile{
		"alice": {UserID: "alice", CreatedAt: created},
	}}
	h := NewHandler(repo)

	rec := httptest.NewRecorder()
	h.Update(rec, authedRequest(http.MethodPut, "/api/v1/profile", []byte(`{"skills":["Go"]}`), "alice"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !repo.profiles["alice"].CreatedAt.Equal(created) {
		t.Error("created_at changed on update")
	}
}

func TestUpdate_InvalidBody(t *testing.T) {
	h := NewHandler(&mockProfileRepo{profiles: map[string]*models.Profile{}})

	rec := httptest.NewRecorder()
	h.Update(rec, authedRequest(http.MethodPut, "/api/v1/profile", []byte(`{`), "alice"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
