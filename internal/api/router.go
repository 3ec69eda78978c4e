package api

import (
	"database/sql"
	"net/http"

	"github.com/bossnaboss212/center/internal/metrics"
	"github.com/bossnaboss212/center/internal/model"
)

// NewRouter creates the back-office router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}
	exportHandler := &ExportHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(requireAdmin(h))
	}

	// Public.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Token management.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Reports (admin only).
	mux.Handle("GET /api/stats", admin(reportsHandler.Stats))
	mux.Handle("GET /api/inventory", admin(reportsHandler.Inventory))
	mux.Handle("GET /api/products/{id}/movements", admin(reportsHandler.StockHistory))
	mux.Handle("GET /api/orders", admin(reportsHandler.ListOrders))
	mux.Handle("GET /api/orders/{id}", admin(reportsHandler.GetOrder))
	mux.Handle("GET /api/ledger", admin(reportsHandler.Ledger))
	mux.Handle("GET /api/jobs", admin(reportsHandler.JobApplications))

	// Exports (admin only).
	mux.Handle("GET /api/export/products.csv", admin(exportHandler.Products))
	mux.Handle("GET /api/export/orders.csv", admin(exportHandler.Orders))

	return LoggingMiddleware(mux)
}
