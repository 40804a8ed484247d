package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)
	sid := uuid.New()

	tok, exp, err := svc.GenerateSessionToken(sid, "1", "ada@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.IsZero() {
		t.Fatalf("expected expiry")
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != sid || claims.UserID != "1" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	base := time.Now()
	svc.now = func() time.Time { return base }

	tok, _, err := svc.GenerateSessionToken(uuid.New(), "1", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_WrongSecret(t *testing.T) {
	tok, _, err := NewHMACService("a", time.Hour).GenerateSessionToken(uuid.New(), "1", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewHMACService("b", time.Hour).ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_RejectsNilSession(t *testing.T) {
	if _, _, err := NewHMACService("a", time.Hour).GenerateSessionToken(uuid.Nil, "1", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
