package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/events"
	"github.com/fitops/studio-support/internal/triage"
	"github.com/fitops/studio-support/pkg/apperrors"
)

var testClock = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type ticketServiceFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	messages   *fakeMessageRepo
	history    *fakeHistoryRepo
	dispatcher *recordingDispatcher
}

func newTicketServiceFixture(t *testing.T) *ticketServiceFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	messages := &fakeMessageRepo{}
	history := &fakeHistoryRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		MessageRepo:    messages,
		DepartmentRepo: &fakeDepartmentRepo{},
		HistoryRepo:    history,
		Dispatcher:     dispatcher,
		Clock:          func() time.Time { return testClock },
	})
	return &ticketServiceFixture{
		service:    svc,
		tickets:    tickets,
		messages:   messages,
		history:    history,
		dispatcher: dispatcher,
	}
}

func strPtr(s string) *string { return &s }

func TestClassifyFromDescription(t *testing.T) {
	fx := newTicketServiceFixture(t)

	result, err := fx.service.Classify("the treadmill is broken again", nil, testClock)
	require.NoError(t, err)

	assert.Equal(t, triage.PriorityHigh, result.Priority)
	assert.Equal(t, triage.CategoryEquipment, result.Category)
	assert.Equal(t, triage.DeptMaintenance, result.Department)
	assert.Nil(t, result.Escalation)
	assert.False(t, result.RequiresClassDetails)
	assert.Equal(t, testClock.Add(8*time.Hour), result.SLADueAt)
	assert.Equal(t, testClock.Add(60*time.Minute), result.ResponseDueAt)
}

func TestClassifySubtypeOverridesDetection(t *testing.T) {
	fx := newTicketServiceFixture(t)

	result, err := fx.service.Classify("my water bottle went missing from the shelf", strPtr("Theft"), testClock)
	require.NoError(t, err)

	require.NotNil(t, result.Escalation)
	assert.Equal(t, triage.PriorityCritical, result.Priority)
	assert.Equal(t, triage.DeptSecurity, result.Department)
	assert.True(t, result.Escalation.Immediate)
	assert.Equal(t, triage.NotifyAll, result.Escalation.Notify)
	assert.Equal(t, testClock.Add(2*time.Hour), result.SLADueAt)
	// Critical always needs class context regardless of category.
	assert.True(t, result.RequiresClassDetails)
}

func TestClassifyUnknownSubtypeIsIgnored(t *testing.T) {
	fx := newTicketServiceFixture(t)

	result, err := fx.service.Classify("the treadmill is broken again", strPtr("Vandalism"), testClock)
	require.NoError(t, err)

	assert.Nil(t, result.Escalation)
	assert.Equal(t, triage.PriorityHigh, result.Priority)
	assert.Equal(t, triage.DeptMaintenance, result.Department)
}

func TestCreateTicketClassifiesAndPersists(t *testing.T) {
	fx := newTicketServiceFixture(t)

	ticket, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Treadmill down",
		Description: "the treadmill is broken again",
		Tags:        []string{"cardio"},
		Transcript: []TranscriptLine{
			{Author: domain.AuthorStaff, Body: "member reported treadmill 4"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Contains(t, ticket.ExternalKey, "STU-")
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, triage.PriorityHigh, ticket.Priority)
	assert.Equal(t, triage.CategoryEquipment, ticket.Category)
	assert.Equal(t, triage.DeptMaintenance, ticket.Department)
	assert.False(t, ticket.Escalated)
	assert.Equal(t, testClock.Add(8*time.Hour), ticket.SLADueAt)

	msgs, err := fx.messages.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.AuthorStaff, msgs[0].Author)

	created := fx.dispatcher.byType(events.EventTicketCreated)
	require.Len(t, created, 1)
	assert.Equal(t, ticket.ID, created[0].TicketID)
	assert.Empty(t, fx.dispatcher.byType(events.EventTicketEscalated))
}

func TestCreateTicketWithEscalationSubtype(t *testing.T) {
	fx := newTicketServiceFixture(t)

	ticket, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Locker break-in",
		Description: "a locker was forced open and a phone was stolen",
		Subtype:     strPtr("Theft"),
		ClassName:   strPtr("n/a"),
	})
	require.NoError(t, err)

	assert.True(t, ticket.Escalated)
	assert.Equal(t, domain.TicketStatusEscalated, ticket.Status)
	assert.Equal(t, triage.PriorityCritical, ticket.Priority)
	assert.Equal(t, triage.DeptSecurity, ticket.Department)
	require.NotNil(t, ticket.NotifyScope)
	assert.Equal(t, triage.NotifyAll, *ticket.NotifyScope)
	assert.Equal(t, testClock.Add(2*time.Hour), ticket.SLADueAt)

	escalated := fx.dispatcher.byType(events.EventTicketEscalated)
	require.Len(t, escalated, 1)

	history, err := fx.history.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeTypeEscalation, history[0].ChangeType)
}

func TestCreateTicketRequiresClassName(t *testing.T) {
	fx := newTicketServiceFixture(t)

	_, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Instructor no-show",
		Description: "the instructor never showed up and a member collapsed waiting outside",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateTicketConfirmedValuesWin(t *testing.T) {
	fx := newTicketServiceFixture(t)

	ticket, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Water fountain",
		Description: "the water fountain tastes odd",
		Priority:    triage.PriorityLow,
		Category:    triage.CategoryFacilities,
	})
	require.NoError(t, err)

	assert.Equal(t, triage.PriorityLow, ticket.Priority)
	assert.Equal(t, triage.CategoryFacilities, ticket.Category)
	assert.Equal(t, triage.DeptFacilities, ticket.Department)
	assert.Equal(t, testClock.Add(72*time.Hour), ticket.SLADueAt)
}

func TestCreateTicketManualPriorityCannotWeakenEscalation(t *testing.T) {
	fx := newTicketServiceFixture(t)

	ticket, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Pipe burst",
		Description: "water is pooling under the sauna door",
		Subtype:     strPtr("Water Leak"),
		Priority:    triage.PriorityLow,
	})
	require.NoError(t, err)

	assert.Equal(t, triage.PriorityHigh, ticket.Priority)
	assert.Equal(t, triage.DeptMaintenance, ticket.Department)
}

func TestCreateTicketRejectsBlankFields(t *testing.T) {
	fx := newTicketServiceFixture(t)

	_, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "   ",
		Description: "something",
	})
	require.Error(t, err)
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	updated, err := fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusInProgress, "picked up")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	updated, err = fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusResolved, "fixed belt")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	updated, err = fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusClosed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, testClock, *updated.ClosedAt)

	history, err := fx.history.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestUpdateStatusRejectsIllegalJump(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	_, err := fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusClosed, "")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateStatusTerminalStatesAreFinal(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	_, err := fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusCancelled, "duplicate")
	require.NoError(t, err)

	_, err = fx.service.UpdateStatus(context.Background(), "ops", ticket.ID, domain.TicketStatusInProgress, "")
	require.Error(t, err)
}

func TestUpdatePriorityRecomputesDeadline(t *testing.T) {
	fx := newTicketServiceFixture(t)

	createdAt := testClock.Add(-3 * time.Hour)
	dueAt := createdAt.Add(24 * time.Hour)
	seeded := &domain.Ticket{
		ExternalKey: "STU-SEEDED1",
		Title:       "Mirror wobble",
		Description: "the mirror in studio B is wobbly",
		Status:      domain.TicketStatusOpen,
		Priority:    triage.PriorityMedium,
		Category:    triage.CategoryFacilities,
		Department:  triage.DeptFacilities,
		SLADueAt:    dueAt,
		CreatedAt:   createdAt,
	}
	require.NoError(t, fx.tickets.Create(context.Background(), seeded))

	updated, err := fx.service.UpdatePriority(context.Background(), "manager", seeded.ID, triage.PriorityCritical)
	require.NoError(t, err)

	assert.Equal(t, triage.PriorityCritical, updated.Priority)
	assert.Equal(t, createdAt.Add(2*time.Hour), updated.SLADueAt)

	changed := fx.dispatcher.byType(events.EventTicketPriorityChanged)
	require.Len(t, changed, 1)
}

func TestUpdatePriorityRejectsUnknownTier(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	_, err := fx.service.UpdatePriority(context.Background(), "manager", ticket.ID, triage.Priority("blocker"))
	require.Error(t, err)
}

func TestAddMessageAppendsToTranscript(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	msg, err := fx.service.AddMessage(context.Background(), ticket.ID, domain.AuthorStaff, "  vendor scheduled for tomorrow  ")
	require.NoError(t, err)
	assert.Equal(t, "vendor scheduled for tomorrow", msg.Body)

	_, err = fx.service.AddMessage(context.Background(), ticket.ID, domain.AuthorStaff, "   ")
	require.Error(t, err)
}

func TestGetTicketNotFound(t *testing.T) {
	fx := newTicketServiceFixture(t)

	_, _, _, err := fx.service.GetTicket(context.Background(), "missing")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestEvaluateSLA(t *testing.T) {
	fx := newTicketServiceFixture(t)
	ticket := mustCreateTicket(t, fx, "the treadmill is broken again")

	_, status, err := fx.service.EvaluateSLA(context.Background(), ticket.ID)
	require.NoError(t, err)

	// High tier: due in 8h with a 4h warning window, so neither flag yet.
	assert.Equal(t, 8*time.Hour, status.Remaining)
	assert.False(t, status.Nearing)
	assert.False(t, status.Breached)
}

func mustCreateTicket(t *testing.T, fx *ticketServiceFixture, description string) *domain.Ticket {
	t.Helper()
	ticket, err := fx.service.CreateTicket(context.Background(), TicketCreateInput{
		Location:    "Downtown",
		Reporter:    "front-desk",
		Title:       "Ticket",
		Description: description,
	})
	require.NoError(t, err)
	return ticket
}
