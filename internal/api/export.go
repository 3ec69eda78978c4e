package api

import (
	"bytes"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/bossnaboss212/center/internal/export"
	"github.com/bossnaboss212/center/internal/store"
)

// ExportHandler serves the CSV exports.
type ExportHandler struct {
	DB *sql.DB
}

// Products handles GET /api/export/products.csv.
func (h *ExportHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing products", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export products")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteProducts(&buf, products); err != nil {
		slog.Error("writing products csv", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export products")
		return
	}
	writeCSV(w, export.ProductsFile, buf.Bytes())
}

// Orders handles GET /api/export/orders.csv.
func (h *ExportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := store.ListOrders(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing orders", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export orders")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, orders); err != nil {
		slog.Error("writing orders csv", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export orders")
		return
	}
	writeCSV(w, export.OrdersFile, buf.Bytes())
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("writing csv response", "file", name, "error", err)
	}
}
