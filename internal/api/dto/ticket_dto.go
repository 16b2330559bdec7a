package dto

import (
	"time"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/triage"
)

// TranscriptLineRequest is one chat message from the reporting conversation.
type TranscriptLineRequest struct {
	Author domain.MessageAuthor `json:"author"`
	Body   string               `json:"body"`
}

// CreateTicketRequest payload. Priority and Category carry the values the
// reporter confirmed in the preview modal; when omitted the engine decides.
type CreateTicketRequest struct {
	Location    string                  `json:"location"`
	Reporter    string                  `json:"reporter"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Subtype     *string                 `json:"subtype,omitempty"`
	ClassName   *string                 `json:"class_name,omitempty"`
	Priority    triage.Priority         `json:"priority,omitempty"`
	Category    string                  `json:"category,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	Transcript  []TranscriptLineRequest `json:"transcript,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Actor   string              `json:"actor"`
	Comment string              `json:"comment,omitempty"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority triage.Priority `json:"priority"`
	Actor    string          `json:"actor"`
}

// AddMessageRequest payload.
type AddMessageRequest struct {
	Author domain.MessageAuthor `json:"author"`
	Body   string               `json:"body"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string              `json:"id"`
	ExternalKey string              `json:"external_key"`
	Location    string              `json:"location"`
	Title       string              `json:"title"`
	Status      domain.TicketStatus `json:"status"`
	Priority    triage.Priority     `json:"priority"`
	Category    string              `json:"category"`
	Department  string              `json:"department"`
	Escalated   bool                `json:"escalated"`
	Tags        []string            `json:"tags"`
	SLADueAt    time.Time           `json:"sla_due_at"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          string                  `json:"id"`
	ExternalKey string                  `json:"external_key"`
	Location    string                  `json:"location"`
	Reporter    string                  `json:"reporter"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Status      domain.TicketStatus     `json:"status"`
	Priority    triage.Priority         `json:"priority"`
	Category    string                  `json:"category"`
	Subtype     *string                 `json:"subtype,omitempty"`
	Department  string                  `json:"department"`
	ClassName   *string                 `json:"class_name,omitempty"`
	Escalated   bool                    `json:"escalated"`
	NotifyScope *triage.NotifyScope     `json:"notify_scope,omitempty"`
	Tags        []string                `json:"tags"`
	SLADueAt    time.Time               `json:"sla_due_at"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	ClosedAt    *time.Time              `json:"closed_at,omitempty"`
	Messages    []TicketMessageResponse `json:"messages"`
	History     []TicketHistoryResponse `json:"history"`
}

// TicketMessageResponse represents one transcript line.
type TicketMessageResponse struct {
	ID        string               `json:"id"`
	Author    domain.MessageAuthor `json:"author"`
	Body      string               `json:"body"`
	CreatedAt time.Time            `json:"created_at"`
}

// TicketHistoryResponse represents one audit entry.
type TicketHistoryResponse struct {
	ID         string                  `json:"id"`
	ChangedBy  string                  `json:"changed_by"`
	ChangeType domain.TicketChangeType `json:"change_type"`
	OldValue   map[string]any          `json:"old_value"`
	NewValue   map[string]any          `json:"new_value"`
	CreatedAt  time.Time               `json:"created_at"`
}

// SLAStatusResponse is the deadline evaluation for one ticket.
type SLAStatusResponse struct {
	TicketID         string          `json:"ticket_id"`
	Priority         triage.Priority `json:"priority"`
	DueAt            time.Time       `json:"due_at"`
	RemainingSeconds int64           `json:"remaining_seconds"`
	Nearing          bool            `json:"nearing"`
	Breached         bool            `json:"breached"`
}
