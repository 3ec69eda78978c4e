package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bossnaboss212/center/internal/model"
)

// Claims represents the JWT claims of a back-office token.
type Claims struct {
	AccountID  int64      `json:"account_id"`
	TelegramID int64      `json:"telegram_id"`
	Role       model.Role `json:"role"`
	jwt.RegisteredClaims
}

// DefaultExpiry is used when no lifetime is configured.
const DefaultExpiry = 24 * time.Hour

// GenerateToken issues a signed token for an account with a unique JTI.
func GenerateToken(secret string, account *model.Account, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultExpiry
	}
	now := time.Now()

	claims := Claims{
		AccountID:  account.ID,
		TelegramID: account.TelegramID,
		Role:       account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", account.TelegramID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
