package domain

import (
	"time"

	"github.com/fitops/studio-support/internal/triage"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusEscalated  TicketStatus = "ESCALATED"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// Ticket is the aggregate for studio support requests. The classification
// fields (priority, category, department, SLA deadline) are computed by the
// triage engine before the record is persisted; the engine itself never sees
// this type.
type Ticket struct {
	ID          string
	ExternalKey string
	Location    string
	Reporter    string
	Title       string
	Description string
	Status      TicketStatus
	Priority    triage.Priority
	Category    string
	Subtype     *string
	Department  string
	ClassName   *string
	Escalated   bool
	NotifyScope *triage.NotifyScope
	Tags        []string
	SLADueAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}
