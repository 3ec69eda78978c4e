package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bossnaboss212/center/internal/model"
)

var created = time.Date(2024, 5, 16, 9, 30, 0, 0, time.UTC)

func TestWriteProducts(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProducts(&buf, []model.Product{
		{ID: 1, Name: "Pain, complet", Code: "BRD", Price: decimal.NewFromInt(500), StockQty: 8, Active: true, CreatedAt: created},
		{ID: 2, Name: "Lait", Code: "MLK", Price: decimal.RequireFromString("250.5"), StockQty: 0, CreatedAt: created},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "code", "price", "stock", "active", "created_at"}, rows[0])
	assert.Equal(t, []string{"1", "Pain, complet", "BRD", "500.00", "8", "true", "2024-05-16 09:30:00"}, rows[1])
	assert.Equal(t, "250.50", rows[2][3])
	assert.Equal(t, "false", rows[2][5])
}

func TestWriteOrders(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOrders(&buf, []model.Order{
		{
			ID: 3, Status: model.OrderPaid, Total: decimal.NewFromInt(1300), CreatedAt: created,
			Items: []model.OrderItem{
				{ProductID: 1, Qty: 2, UnitPrice: decimal.NewFromInt(500)},
				{ProductID: 2, Qty: 1, UnitPrice: decimal.NewFromInt(300)},
			},
		},
		{ID: 4, Status: model.OrderNew, Total: decimal.Zero, CreatedAt: created},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"order_id", "date", "status", "total", "line"}, rows[0])
	assert.Equal(t, []string{"3", "2024-05-16 09:30:00", "PAYEE", "1300.00", "1:2x500.00 | 2:1x300.00"}, rows[1])
	assert.Equal(t, "", rows[2][4])
}
