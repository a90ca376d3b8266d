package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foundry-social/foundry/internal/api/auth"
	"github.com/foundry-social/foundry/internal/models"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService([]byte("test-secret-key"), time.Hour)
}

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantUserID {
			t.Errorf("GetUserID = %q, want %q", got, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := testJWTService()
	user := &models.User{ID: "user-1", Username: "alice"}
	token, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := JWTAuth(jwtService)(protectedHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := testJWTService()

	otherService := auth.NewJWTService([]byte("other-secret"), time.Hour)
	foreignToken, err := otherService.GenerateToken(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	expiredService := auth.NewJWTService([]byte("test-secret-key"), -time.Hour)
	expiredToken, err := expiredService.GenerateToken(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed", "Bearer"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + foreignToken},
		{"expired", "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTAuth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached with invalid auth")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestGetUserID_MissingContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetUserID(req.Context()); got != "" {
		t.Errorf("GetUserID = %q, want empty", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("key-1") {
			t.Fatalf("request %d denied under limit", i)
		}
	}
	if rl.Allow("key-1") {
		t.Error("request allowed over limit")
	}
	// Other keys are independent.
	if !rl.Allow("key-2") {
		t.Error("independent key denied")
	}
}
