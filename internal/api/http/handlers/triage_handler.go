package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitops/studio-support/internal/api/dto"
	"github.com/fitops/studio-support/internal/service"
	"github.com/fitops/studio-support/pkg/apperrors"
)

// TriageHandler serves the classification preview endpoint.
type TriageHandler struct {
	service *service.TicketService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(ticketService *service.TicketService) *TriageHandler {
	return &TriageHandler{service: ticketService}
}

// Classify POST /triage/classify. Returns the full classification preview for
// a free-text description without persisting anything.
func (h *TriageHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", nil)
	}

	classification, err := h.service.Classify(req.Description, req.Subtype, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": classifyResponse(classification)})
}

func classifyResponse(classification service.Classification) dto.ClassifyResponse {
	resp := dto.ClassifyResponse{
		Priority:             classification.Priority,
		PriorityLabel:        classification.PriorityLabel,
		Category:             classification.Category,
		Department:           classification.Department,
		RequiresClassDetails: classification.RequiresClassDetails,
		Routing: dto.RoutingResponse{
			Primary:        classification.Routing.Primary,
			Secondary:      classification.Routing.Secondary,
			EscalationPath: classification.Routing.EscalationPath,
		},
		SLADueAt:      classification.SLADueAt,
		ResponseDueAt: classification.ResponseDueAt,
	}
	if classification.Escalation != nil && classification.Subtype != nil {
		resp.Escalation = &dto.EscalationResponse{
			Subtype:    *classification.Subtype,
			EscalateTo: classification.Escalation.EscalateTo,
			Priority:   classification.Escalation.Priority,
			Immediate:  classification.Escalation.Immediate,
			Notify:     classification.Escalation.Notify,
		}
	}
	return resp
}
