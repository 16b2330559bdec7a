package events

import (
	"time"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/triage"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketEscalated       EventType = "ticket_escalated"
	EventSLAWarning            EventType = "sla_warning"
	EventSLABreached           EventType = "sla_breached"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Location   string          `json:"location"`
	Department string          `json:"department"`
	Category   string          `json:"category"`
	Priority   triage.Priority `json:"priority"`
	Title      string          `json:"title"`
	Escalated  bool            `json:"escalated"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority triage.Priority `json:"old_priority"`
	NewPriority triage.Priority `json:"new_priority"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Subtype    string             `json:"subtype"`
	EscalateTo string             `json:"escalate_to"`
	Priority   triage.Priority    `json:"priority"`
	Immediate  bool               `json:"immediate"`
	Notify     triage.NotifyScope `json:"notify"`
}

// SLAAlertPayload covers both warning and breach events.
type SLAAlertPayload struct {
	Priority   triage.Priority `json:"priority"`
	Department string          `json:"department"`
	DueAt      time.Time       `json:"due_at"`
	Remaining  time.Duration   `json:"remaining"`
}
