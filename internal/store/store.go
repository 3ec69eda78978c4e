// Package store holds every read and write against the SQLite database.
// Functions take the *sql.DB explicitly and run one short unit of work each.
// Lookups return nil, nil when the row does not exist.
package store

import (
	"errors"
	"time"
)

var (
	// ErrEmptyCart is returned by Checkout when the open cart has no lines.
	ErrEmptyCart = errors.New("empty cart")
	// ErrProductUnavailable is returned when adding an unknown or inactive product.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrNotFound is returned by mutations whose target row does not exist.
	ErrNotFound = errors.New("not found")
)

// sqlTimeLayout matches the text SQLite's CURRENT_TIMESTAMP produces, so
// range filters compare correctly as strings.
const sqlTimeLayout = "2006-01-02 15:04:05"

func sqlTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}
