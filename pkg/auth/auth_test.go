package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.GenerateToken(12, 3)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 12 || claims.RoleID != 3 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, _ := m.GenerateToken(1, 1)

	other := NewTokenManager("another-secret", time.Hour)
	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("token signed with a different secret must be rejected, got %v", err)
	}

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.GenerateToken(1, 1)
	if _, err := m.ValidateToken(old); err != ErrInvalidToken {
		t.Fatalf("expired token must be rejected, got %v", err)
	}

	if _, err := m.ValidateToken("not-a-jwt"); err != ErrInvalidToken {
		t.Fatalf("garbage must be rejected, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "changeme" {
		t.Fatalf("password stored in clear")
	}
	if !CheckPassword(hash, "changeme") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
