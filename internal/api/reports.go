package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bossnaboss212/center/internal/model"
	"github.com/bossnaboss212/center/internal/store"
)

// ReportsHandler serves the read-only back-office views.
type ReportsHandler struct {
	DB *sql.DB
}

type periodStats struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

type statsResponse struct {
	Day  periodStats     `json:"day"`
	Week periodStats     `json:"week"`
	Cash decimal.Decimal `json:"cash"`
}

func toPeriod(s *store.OrderStats) periodStats {
	return periodStats{
		Start:         s.Start,
		End:           s.End,
		Orders:        s.Count,
		Revenue:       s.Revenue,
		AverageTicket: s.AverageTicket(),
	}
}

// Stats handles GET /api/stats. The optional date query parameter
// (YYYY-MM-DD) selects the day; it defaults to today.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	dayStart, dayEnd := store.DayBounds(day)
	weekStart, weekEnd := store.WeekBounds(day)

	daily, err := store.GetOrderStats(r.Context(), h.DB, dayStart, dayEnd)
	if err != nil {
		slog.Error("getting daily stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	weekly, err := store.GetOrderStats(r.Context(), h.DB, weekStart, weekEnd)
	if err != nil {
		slog.Error("getting weekly stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	cash, err := store.CashBalance(r.Context(), h.DB)
	if err != nil {
		slog.Error("getting cash balance", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	jsonResponse(w, http.StatusOK, statsResponse{
		Day:  toPeriod(daily),
		Week: toPeriod(weekly),
		Cash: cash,
	})
}

// Inventory handles GET /api/inventory.
func (h *ReportsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing products", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, products)
}

// StockHistory handles GET /api/products/{id}/movements.
func (h *ReportsHandler) StockHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting product", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	movements, err := store.ListStockMovements(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("listing stock movements", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list movements")
		return
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	jsonResponse(w, http.StatusOK, movements)
}

// ListOrders handles GET /api/orders.
func (h *ReportsHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := store.ListOrders(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing orders", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	jsonResponse(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/{id}.
func (h *ReportsHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting order", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// Ledger handles GET /api/ledger. The optional order query parameter
// restricts entries to one order.
func (h *ReportsHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	var orderID int64
	if v := r.URL.Query().Get("order"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid order id")
			return
		}
		orderID = id
	}

	entries, err := store.ListLedgerEntries(r.Context(), h.DB, orderID)
	if err != nil {
		slog.Error("listing ledger", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list ledger")
		return
	}
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// JobApplications handles GET /api/jobs.
func (h *ReportsHandler) JobApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := store.ListJobApplications(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing job applications", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if apps == nil {
		apps = []model.JobApplication{}
	}
	jsonResponse(w, http.StatusOK, apps)
}
