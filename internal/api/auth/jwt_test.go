package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/foundry-social/foundry/internal/models"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), time.Hour)
	user := &models.User{ID: "user-1", Username: "alice"}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService([]byte("secret-a"), time.Hour)
	other := NewJWTService([]byte("secret-b"), time.Hour)

	token, err := svc.GenerateToken(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token validated with wrong secret")
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), -time.Minute)

	token, err := svc.GenerateToken(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expired token validated")
	}
}

func TestJWTService_RejectsTampered(t *testing.T) {
	svc := NewJWTService([]byte("test-secret"), time.Hour)

	token, err := svc.GenerateToken(&models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + ".eyJ1aWQiOiJ1c2VyLTIifQ." + parts[2]
	if _, err := svc.ValidateToken(tampered); err == nil {
		t.Error("tampered token validated")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}
