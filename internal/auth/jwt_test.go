package auth

import (
	"testing"
	"time"

	"github.com/bossnaboss212/center/internal/model"
)

var admin = &model.Account{ID: 1, TelegramID: 1001, Role: model.RoleAdmin}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, admin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.AccountID != 1 {
		t.Errorf("expected account_id 1, got %d", claims.AccountID)
	}
	if claims.TelegramID != 1001 {
		t.Errorf("expected telegram_id 1001, got %d", claims.TelegramID)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	t1, _ := GenerateToken("s", admin, time.Hour)
	t2, _ := GenerateToken("s", admin, time.Hour)
	c1, _ := ValidateToken("s", t1)
	c2, _ := ValidateToken("s", t2)
	if c1.ID == c2.ID {
		t.Errorf("expected distinct jti, got %q twice", c1.ID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", admin, time.Hour)

	_, err := ValidateToken("secret2", token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, _ := GenerateToken("s", admin, time.Nanosecond)
	time.Sleep(1100 * time.Millisecond)
	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, admin, 0)
	claims, _ := ValidateToken(secret, token)

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(DefaultExpiry)

	// Should be within a few seconds.
	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
