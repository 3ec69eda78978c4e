package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bossnaboss212/center/internal/model"
)

// RecordShift appends an attendance record. Repeated check-ins on the same
// day are kept as separate rows.
func RecordShift(ctx context.Context, db *sql.DB, workerID int64, status model.ShiftStatus, role string) (*model.Shift, error) {
	var roleArg *string
	if role != "" {
		roleArg = &role
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO shifts (worker_id, status, role) VALUES (?, ?, ?)`,
		workerID, status, roleArg,
	)
	if err != nil {
		return nil, fmt.Errorf("recording shift: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shift id: %w", err)
	}

	shifts, err := listShifts(ctx, db, `WHERE s.id = ?`, id)
	if err != nil || len(shifts) == 0 {
		return nil, err
	}
	return &shifts[0], nil
}

// ListShiftsBetween returns shifts dated in [start, end).
func ListShiftsBetween(ctx context.Context, db *sql.DB, start, end time.Time) ([]model.Shift, error) {
	return listShifts(ctx, db, `WHERE s.date >= ? AND s.date < ?`, sqlTime(start), sqlTime(end))
}

func listShifts(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.Shift, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.worker_id, s.status, s.role, s.date, a.telegram_id
		 FROM shifts s
		 JOIN accounts a ON a.id = s.worker_id
		 `+where+`
		 ORDER BY s.id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		var role sql.NullString
		if err := rows.Scan(&s.ID, &s.WorkerID, &s.Status, &role, &s.Date, &s.WorkerTelegramID); err != nil {
			return nil, fmt.Errorf("scanning shift: %w", err)
		}
		s.Role = role.String
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
