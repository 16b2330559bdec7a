package dto

import (
	"time"

	"github.com/fitops/studio-support/internal/triage"
)

// ClassifyRequest payload for the preview endpoint.
type ClassifyRequest struct {
	Description string  `json:"description"`
	Subtype     *string `json:"subtype,omitempty"`
}

// RoutingResponse describes the departments responsible for a category.
type RoutingResponse struct {
	Primary        string   `json:"primary"`
	Secondary      string   `json:"secondary"`
	EscalationPath []string `json:"escalation_path"`
}

// EscalationResponse describes a matched escalation rule.
type EscalationResponse struct {
	Subtype    string             `json:"subtype"`
	EscalateTo string             `json:"escalate_to"`
	Priority   triage.Priority    `json:"priority"`
	Immediate  bool               `json:"immediate"`
	Notify     triage.NotifyScope `json:"notify"`
}

// ClassifyResponse is the full preview shown before a ticket is filed.
type ClassifyResponse struct {
	Priority             triage.Priority     `json:"priority"`
	PriorityLabel        string              `json:"priority_label"`
	Category             string              `json:"category"`
	Department           string              `json:"department"`
	RequiresClassDetails bool                `json:"requires_class_details"`
	Routing              RoutingResponse     `json:"routing"`
	Escalation           *EscalationResponse `json:"escalation,omitempty"`
	SLADueAt             time.Time           `json:"sla_due_at"`
	ResponseDueAt        time.Time           `json:"response_due_at"`
}
