package triage

import (
	"fmt"
	"time"
)

// SLADeadline returns the resolution deadline for a ticket created at
// createdAt. The priority's resolution budget is added as a fixed duration,
// not calendar hours, so deadlines are stable across DST transitions. An
// unknown priority is a caller bug and is rejected.
func SLADeadline(priority Priority, createdAt time.Time) (time.Time, error) {
	level, ok := levels[priority]
	if !ok {
		return time.Time{}, fmt.Errorf("triage: unknown priority %q", priority)
	}
	return createdAt.Add(time.Duration(level.ResolutionHours) * time.Hour), nil
}

// ResponseDeadline returns the first-response deadline for a ticket created at
// createdAt, from the priority's response-minutes budget.
func ResponseDeadline(priority Priority, createdAt time.Time) (time.Time, error) {
	level, ok := levels[priority]
	if !ok {
		return time.Time{}, fmt.Errorf("triage: unknown priority %q", priority)
	}
	return createdAt.Add(time.Duration(level.ResponseMinutes) * time.Minute), nil
}

// NearingSLA reports whether the deadline is still ahead but inside the
// priority's escalation-warning window. A deadline that has already passed is
// a breach, not a warning. Unknown priorities never warn.
func NearingSLA(dueAt time.Time, priority Priority, now time.Time) bool {
	level, ok := levels[priority]
	if !ok {
		return false
	}
	remaining := dueAt.Sub(now)
	return remaining > 0 && remaining <= time.Duration(level.EscalationHours)*time.Hour
}

// SLABreached reports whether now is strictly past the deadline.
func SLABreached(dueAt time.Time, now time.Time) bool {
	return now.After(dueAt)
}
