package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/events"
	"github.com/fitops/studio-support/internal/observability"
	"github.com/fitops/studio-support/internal/repository"
	"github.com/fitops/studio-support/internal/triage"
	"github.com/fitops/studio-support/pkg/apperrors"
)

// TicketService coordinates triage and ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	messages    repository.TicketMessageRepository
	departments repository.DepartmentRepository
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	MessageRepo    repository.TicketMessageRepository
	DepartmentRepo repository.DepartmentRepository
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Clock          func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		departments: deps.DepartmentRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		now:         clock,
	}
}

// Classification is the triage result shown in the preview modal before a
// ticket is filed.
type Classification struct {
	Priority             triage.Priority
	PriorityLabel        string
	Category             string
	Department           string
	Routing              triage.DepartmentRouting
	Escalation           *triage.EscalationRule
	Subtype              *string
	RequiresClassDetails bool
	SLADueAt             time.Time
	ResponseDueAt        time.Time
}

// Classify runs the triage engine over free text. A recognized subtype applies
// its escalation rule: the rule's department and priority replace the detected
// ones. The result is advisory; nothing is persisted.
func (s *TicketService) Classify(text string, subtype *string, at time.Time) (Classification, error) {
	priority := triage.DetectPriority(text)
	category := triage.DetectCategory(text)
	routing := triage.RoutingFor(category)
	department := routing.Primary

	result := Classification{
		Priority: priority,
		Category: category,
		Routing:  routing,
	}

	if subtype != nil && strings.TrimSpace(*subtype) != "" {
		if rule, ok := triage.EscalationRuleFor(*subtype); ok {
			result.Escalation = &rule
			result.Subtype = subtype
			priority = rule.Priority
			department = rule.EscalateTo
		}
	}

	level, ok := triage.LevelFor(priority)
	if !ok {
		return Classification{}, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	dueAt, err := triage.SLADeadline(priority, at)
	if err != nil {
		return Classification{}, apperrors.MapError(err)
	}
	responseAt, err := triage.ResponseDeadline(priority, at)
	if err != nil {
		return Classification{}, apperrors.MapError(err)
	}

	result.Priority = priority
	result.PriorityLabel = level.Label
	result.Department = department
	result.RequiresClassDetails = triage.RequiresClassDetails(text, priority, result.Category)
	result.SLADueAt = dueAt
	result.ResponseDueAt = responseAt

	s.metrics.RecordClassification(string(priority), result.Category)
	return result, nil
}

// TranscriptLine is one chat message from the conversation that produced a ticket.
type TranscriptLine struct {
	Author domain.MessageAuthor
	Body   string
}

// TicketCreateInput describes ticket creation payload. Priority and Category
// carry the human-confirmed values from the preview modal; leave them empty to
// let the engine decide from the description.
type TicketCreateInput struct {
	Location    string
	Reporter    string
	Title       string
	Description string
	Subtype     *string
	ClassName   *string
	Priority    triage.Priority
	Category    string
	Tags        []string
	Transcript  []TranscriptLine
}

// CreateTicket classifies the description, applies any escalation rule, and
// persists the ticket with its SLA deadline.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	createdAt := s.now()
	classification, err := s.Classify(input.Description, input.Subtype, createdAt)
	if err != nil {
		return nil, err
	}

	priority := classification.Priority
	category := classification.Category
	department := classification.Department

	// Confirmed preview values win over detection, but an escalation rule's
	// priority override is not weakened by a lower manual pick.
	if input.Category != "" {
		category = input.Category
		if classification.Escalation == nil {
			department = triage.RoutingFor(category).Primary
		}
	}
	if input.Priority != "" && classification.Escalation == nil {
		priority = input.Priority
	}

	if triage.RequiresClassDetails(input.Description, priority, category) {
		if input.ClassName == nil || strings.TrimSpace(*input.ClassName) == "" {
			return nil, apperrors.NewValidationError("class name required for this ticket", map[string]any{
				"category": category,
				"priority": priority,
			})
		}
	}

	if err := s.requireActiveDepartment(ctx, department); err != nil {
		return nil, err
	}

	dueAt, err := triage.SLADeadline(priority, createdAt)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Location:    strings.TrimSpace(input.Location),
		Reporter:    strings.TrimSpace(input.Reporter),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		Category:    category,
		Department:  department,
		ClassName:   input.ClassName,
		Tags:        input.Tags,
		SLADueAt:    dueAt,
	}

	if classification.Escalation != nil {
		ticket.Subtype = input.Subtype
		ticket.Escalated = true
		scope := classification.Escalation.Notify
		ticket.NotifyScope = &scope
		if classification.Escalation.Immediate {
			ticket.Status = domain.TicketStatusEscalated
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if len(input.Transcript) > 0 && s.messages != nil {
		msgs := make([]domain.TicketMessage, 0, len(input.Transcript))
		for _, line := range input.Transcript {
			msgs = append(msgs, domain.TicketMessage{
				TicketID: ticket.ID,
				Author:   line.Author,
				Body:     strings.TrimSpace(line.Body),
			})
		}
		if err := s.messages.CreateBatch(ctx, msgs); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    ticket.Reporter,
		Payload: events.TicketCreatedPayload{
			Location:   ticket.Location,
			Department: ticket.Department,
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
			Escalated:  ticket.Escalated,
		},
	})

	if classification.Escalation != nil {
		if err := s.recordEscalation(ctx, ticket, *classification.Escalation); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: ticket.ID,
			Actor:    ticket.Reporter,
			Payload: events.TicketEscalatedPayload{
				Subtype:    *input.Subtype,
				EscalateTo: classification.Escalation.EscalateTo,
				Priority:   classification.Escalation.Priority,
				Immediate:  classification.Escalation.Immediate,
				Notify:     classification.Escalation.Notify,
			},
		})
	}

	return ticket, nil
}

// GetTicket fetches a ticket with its transcript and audit history.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketMessage, []domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, nil, apperrors.MapError(err)
	}
	var msgs []domain.TicketMessage
	if s.messages != nil {
		if msgs, err = s.messages.ListByTicket(ctx, ticket.ID); err != nil {
			return nil, nil, nil, apperrors.MapError(err)
		}
	}
	var history []domain.TicketHistory
	if s.history != nil {
		if history, err = s.history.ListByTicket(ctx, ticket.ID); err != nil {
			return nil, nil, nil, apperrors.MapError(err)
		}
	}
	return ticket, msgs, history, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus moves a ticket along the allowed transition table.
func (s *TicketService) UpdateStatus(ctx context.Context, actor, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}
	oldStatus := ticket.Status
	if newStatus == domain.TicketStatusClosed || newStatus == domain.TicketStatusCancelled {
		now := s.now()
		ticket.ClosedAt = &now
	} else if ticket.ClosedAt != nil {
		ticket.ClosedAt = nil
	}
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordStatusChange(ctx, actor, ticket.ID, oldStatus, newStatus, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority and recomputes the SLA deadline from
// the original creation time.
func (s *TicketService) UpdatePriority(ctx context.Context, actor, ticketID string, newPriority triage.Priority) (*domain.Ticket, error) {
	if !newPriority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	dueAt, err := triage.SLADeadline(newPriority, ticket.CreatedAt)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.SLADueAt = dueAt
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordPriorityChange(ctx, actor, ticket.ID, oldPriority, newPriority); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// AddMessage appends a follow-up note to the ticket transcript.
func (s *TicketService) AddMessage(ctx context.Context, ticketID string, author domain.MessageAuthor, body string) (*domain.TicketMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	msg := &domain.TicketMessage{
		TicketID: ticket.ID,
		Author:   author,
		Body:     strings.TrimSpace(body),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return msg, nil
}

// SLAStatus is the deadline evaluation for one ticket at a point in time.
type SLAStatus struct {
	DueAt     time.Time
	Remaining time.Duration
	Nearing   bool
	Breached  bool
}

// EvaluateSLA reports where a ticket stands against its deadline.
func (s *TicketService) EvaluateSLA(ctx context.Context, ticketID string) (*domain.Ticket, SLAStatus, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, SLAStatus{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, SLAStatus{}, apperrors.MapError(err)
	}
	now := s.now()
	status := SLAStatus{
		DueAt:     ticket.SLADueAt,
		Remaining: ticket.SLADueAt.Sub(now),
		Nearing:   triage.NearingSLA(ticket.SLADueAt, ticket.Priority, now),
		Breached:  triage.SLABreached(ticket.SLADueAt, now),
	}
	return ticket, status, nil
}

func (s *TicketService) requireActiveDepartment(ctx context.Context, name string) error {
	if s.departments == nil {
		return nil
	}
	dept, err := s.departments.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewConflict("department not provisioned", map[string]any{"department": name})
		}
		return apperrors.MapError(err)
	}
	if !dept.IsActive {
		return apperrors.NewConflict("department inactive", map[string]any{"department": name})
	}
	return nil
}

func generateTicketKey() string {
	return "STU-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusEscalated, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusEscalated, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusEscalated:  {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
	domain.TicketStatusCancelled:  {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *TicketService) recordStatusChange(ctx context.Context, actor, ticketID string, oldStatus, newStatus domain.TicketStatus, comment string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:   ticketID,
		ChangedBy:  actor,
		ChangeType: domain.ChangeTypeStatus,
		OldValue:   map[string]any{"status": oldStatus},
		NewValue:   map[string]any{"status": newStatus, "comment": comment},
	})
}

func (s *TicketService) recordPriorityChange(ctx context.Context, actor, ticketID string, oldPriority, newPriority triage.Priority) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:   ticketID,
		ChangedBy:  actor,
		ChangeType: domain.ChangeTypePriority,
		OldValue:   map[string]any{"priority": oldPriority},
		NewValue:   map[string]any{"priority": newPriority},
	})
}

func (s *TicketService) recordEscalation(ctx context.Context, ticket *domain.Ticket, rule triage.EscalationRule) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:   ticket.ID,
		ChangedBy:  ticket.Reporter,
		ChangeType: domain.ChangeTypeEscalation,
		OldValue:   map[string]any{},
		NewValue: map[string]any{
			"subtype":     ticket.Subtype,
			"escalate_to": rule.EscalateTo,
			"priority":    rule.Priority,
			"immediate":   rule.Immediate,
			"notify":      rule.Notify,
		},
	})
}
