package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStats summarises orders created in [Start, End).
type OrderStats struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// AverageTicket returns revenue per order, or zero when there are none.
func (s OrderStats) AverageTicket() decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return s.Revenue.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
}

// GetOrderStats counts orders and sums their totals over [start, end).
// Totals are stored as text so the sum is done here rather than in SQL.
func GetOrderStats(ctx context.Context, db *sql.DB, start, end time.Time) (*OrderStats, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT total FROM orders WHERE created_at >= ? AND created_at < ?`,
		sqlTime(start), sqlTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("querying order stats: %w", err)
	}
	defer rows.Close()

	stats := &OrderStats{Start: start, End: end, Revenue: decimal.Zero}
	for rows.Next() {
		var total decimal.Decimal
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("scanning order total: %w", err)
		}
		stats.Count++
		stats.Revenue = stats.Revenue.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.Revenue = stats.Revenue.Round(2)
	return stats, nil
}

// DayBounds returns the UTC day containing t as [start, end).
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds returns the Monday-start UTC week containing t as [start, end).
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day, _ := DayBounds(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
