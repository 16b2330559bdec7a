package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/events"
	"github.com/fitops/studio-support/internal/observability"
	"github.com/fitops/studio-support/internal/repository"
	"github.com/fitops/studio-support/internal/triage"
)

// AlertMarker deduplicates alerts so each deadline is announced once.
type AlertMarker interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// SLAService sweeps open tickets and raises warning/breach events against
// their deadlines.
type SLAService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	marker     AlertMarker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	alertTTL   time.Duration
	now        func() time.Time
}

// SLADependencies bundles collaborators for the sweep service.
type SLADependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Marker      AlertMarker
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	AlertTTL    time.Duration
	Clock       func() time.Time
}

// NewSLAService constructs the service.
func NewSLAService(deps SLADependencies) *SLAService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := deps.AlertTTL
	if ttl <= 0 {
		ttl = 96 * time.Hour
	}
	return &SLAService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		marker:     deps.Marker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		alertTTL:   ttl,
		now:        clock,
	}
}

// Sweep scans open tickets whose deadline falls inside the widest escalation
// window and announces each warning and breach exactly once.
func (s *SLAService) Sweep(ctx context.Context) error {
	now := s.now()
	cutoff := now.Add(widestEscalationWindow())

	tickets, err := s.tickets.ListOpenDueBefore(ctx, cutoff, 500)
	if err != nil {
		return err
	}

	for i := range tickets {
		ticket := &tickets[i]
		switch {
		case triage.SLABreached(ticket.SLADueAt, now):
			s.alert(ctx, ticket, events.EventSLABreached, now)
		case triage.NearingSLA(ticket.SLADueAt, ticket.Priority, now):
			s.alert(ctx, ticket, events.EventSLAWarning, now)
		}
	}
	return nil
}

func (s *SLAService) alert(ctx context.Context, ticket *domain.Ticket, kind events.EventType, now time.Time) {
	key := "sla:" + string(kind) + ":" + ticket.ID
	if s.marker != nil {
		first, err := s.marker.MarkOnce(ctx, key, s.alertTTL)
		if err != nil {
			s.logger.Warn("sla alert dedup unavailable", zap.String("ticket_id", ticket.ID), zap.Error(err))
		} else if !first {
			return
		}
	}

	s.metrics.RecordSLAAlert(string(kind))
	s.logger.Info("sla alert",
		zap.String("kind", string(kind)),
		zap.String("ticket_id", ticket.ID),
		zap.String("priority", string(ticket.Priority)),
		zap.Time("due_at", ticket.SLADueAt),
	)

	if s.history != nil {
		_ = s.history.Create(ctx, &domain.TicketHistory{
			TicketID:   ticket.ID,
			ChangedBy:  "sla-worker",
			ChangeType: domain.ChangeTypeSLA,
			OldValue:   map[string]any{},
			NewValue:   map[string]any{"kind": kind, "due_at": ticket.SLADueAt},
		})
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      kind,
			TicketID:  ticket.ID,
			Actor:     "sla-worker",
			Timestamp: now,
			Payload: events.SLAAlertPayload{
				Priority:   ticket.Priority,
				Department: ticket.Department,
				DueAt:      ticket.SLADueAt,
				Remaining:  ticket.SLADueAt.Sub(now),
			},
		})
	}
}

// widestEscalationWindow returns the largest warning window across tiers, so
// one cutoff covers every priority's candidates.
func widestEscalationWindow() time.Duration {
	widest := time.Duration(0)
	for _, priority := range triage.Levels() {
		level, ok := triage.LevelFor(priority)
		if !ok {
			continue
		}
		window := time.Duration(level.EscalationHours) * time.Hour
		if window > widest {
			widest = window
		}
	}
	return widest
}
