package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/bossnaboss212/center/internal/store"
)

// AuthHandler handles token endpoints. Tokens are issued in the chat with
// /token; the API only inspects and revokes them.
type AuthHandler struct {
	DB *sql.DB
}

type meResponse struct {
	AccountID  int64     `json:"account_id"`
	TelegramID int64     `json:"telegram_id"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	resp := meResponse{
		AccountID:  claims.AccountID,
		TelegramID: claims.TelegramID,
		Role:       string(claims.Role),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		slog.Error("revoking token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	slog.Info("api token revoked", "telegram_id", claims.TelegramID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
