package model

import "time"

// Shift is one attendance record of a worker.
type Shift struct {
	ID       int64       `json:"id"`
	WorkerID int64       `json:"worker_id"`
	Status   ShiftStatus `json:"status"`
	Role     string      `json:"role,omitempty"`
	Date     time.Time   `json:"date"`

	// Joined fields (not always populated).
	WorkerTelegramID int64 `json:"worker_telegram_id,omitempty"`
}

// ShiftStatus is a worker's presence for the day.
type ShiftStatus string

// Shift statuses.
const (
	ShiftPresent ShiftStatus = "PRESENT"
	ShiftAbsent  ShiftStatus = "ABSENT"
)

// ParseShiftStatus accepts a status in any case.
func ParseShiftStatus(s string) (ShiftStatus, bool) {
	switch st := ShiftStatus(upper(s)); st {
	case ShiftPresent, ShiftAbsent:
		return st, true
	}
	return "", false
}

// JobApplication is a recruitment submission.
type JobApplication struct {
	ID            int64     `json:"id"`
	ApplicantName string    `json:"applicant_name"`
	Contact       string    `json:"contact"`
	Position      string    `json:"position"`
	Resume        string    `json:"resume"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApplicationReceived is the status of every new application.
const ApplicationReceived = "recu"

// Post is an announcement.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
