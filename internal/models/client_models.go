package models

import "time"

// Client represents a single contact record.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientStats holds aggregate counts over the clients table.
// Always computed fresh per request, never cached.
type ClientStats struct {
	TotalClients     int `json:"total_clients"`
	WithPhone        int `json:"with_phone"`
	WithoutPhone     int `json:"without_phone"`
	NewLastSevenDays int `json:"new_last_7_days"`
}

// ClientListParams carries the (already sanitized) listing options
// from the service layer down to the repository.
type ClientListParams struct {
	Page     int
	PageSize int
	Search   *string
	SortBy   string // column name, validated against an allow-list
	SortDir  string // "ASC" or "DESC"
}
