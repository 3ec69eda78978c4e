package model

import "time"

// Account is a chat participant, identified by its Telegram id.
type Account struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Label returns the name shown on orders: first name, then username, then the numeric id.
func (a *Account) Label() string {
	if a.FirstName != "" {
		return a.FirstName
	}
	if a.Username != "" {
		return a.Username
	}
	return formatID(a.TelegramID)
}

// Role is the permission level of an account.
type Role string

// Roles.
const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum Role) bool {
	levels := map[Role]int{
		RoleAdmin:    3,
		RoleWorker:   2,
		RoleCustomer: 1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}
