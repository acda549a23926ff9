package auth

import (
	"testing"
	"time"

	"sonicstream/model"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("correct password should verify")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateToken(42, "listener", model.RolePremium)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("userID = %d, want 42", claims.UserID)
	}
	if claims.Username != "listener" {
		t.Errorf("username = %q, want listener", claims.Username)
	}
	if claims.Role != model.RolePremium {
		t.Errorf("role = %s, want premium", claims.Role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.GenerateToken(1, "listener", model.RoleStandard)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := issuer.ParseToken(token); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.GenerateToken(1, "listener", model.RoleStandard)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := other.ParseToken(token); err == nil {
		t.Error("token signed with a different secret should not parse")
	}
}
