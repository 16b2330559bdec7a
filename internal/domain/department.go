package domain

import "time"

// Department represents a team tickets are routed to. Rows are seeded at
// startup from the triage routing tables.
type Department struct {
	ID           string
	Name         string
	Description  string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
