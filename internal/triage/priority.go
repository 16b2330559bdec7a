package triage

import "strings"

// Priority is a ticket severity tier governing SLA budgets.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Level describes the SLA budgets attached to a priority tier.
type Level struct {
	Label           string
	ResponseMinutes int
	ResolutionHours int
	EscalationHours int
	Description     string
}

// tierOrder fixes detection precedence; the first tier with a keyword hit wins.
var tierOrder = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

var levels = map[Priority]Level{
	PriorityCritical: {
		Label:           "Critical",
		ResponseMinutes: 15,
		ResolutionHours: 2,
		EscalationHours: 1,
		Description:     "Safety hazards, security incidents, or a location unable to operate",
	},
	PriorityHigh: {
		Label:           "High",
		ResponseMinutes: 60,
		ResolutionHours: 8,
		EscalationHours: 4,
		Description:     "Member-facing breakage or billing disputes needing same-day attention",
	},
	PriorityMedium: {
		Label:           "Medium",
		ResponseMinutes: 240,
		ResolutionHours: 24,
		EscalationHours: 8,
		Description:     "Routine issues that degrade but do not block the member experience",
	},
	PriorityLow: {
		Label:           "Low",
		ResponseMinutes: 1440,
		ResolutionHours: 72,
		EscalationHours: 24,
		Description:     "Suggestions and nice-to-have requests",
	},
}

var priorityKeywords = map[Priority][]string{
	PriorityCritical: {
		"fire", "flood", "gas leak", "injur", "unconscious", "chest pain",
		"theft", "stolen", "break-in", "break in", "harass", "emergency",
		"electrical hazard", "collapsed",
	},
	PriorityHigh: {
		"broken", "not working", "out of order", "leaking", "no hot water",
		"refund", "overcharged", "double charged", "angry", "furious",
		"urgent", "asap", "locked out", "unusable",
	},
	PriorityMedium: {
		"dirty", "too cold", "too hot", "crowded", "squeaky", "wobbly",
		"flickering", "slow", "reschedule", "missing", "smell",
	},
	PriorityLow: {
		"suggestion", "feedback", "idea", "would be nice", "improvement",
		"could you add", "request",
	},
}

// DetectPriority scans the text against each tier's keyword set in precedence
// order and returns the first tier with a match. Precedence decides, not match
// count: one critical keyword outranks any number of lower-tier hits. Text with
// no keyword at all defaults to PriorityMedium.
func DetectPriority(text string) Priority {
	lowered := strings.ToLower(text)
	for _, tier := range tierOrder {
		for _, keyword := range priorityKeywords[tier] {
			if strings.Contains(lowered, keyword) {
				return tier
			}
		}
	}
	return PriorityMedium
}

// LevelFor returns the SLA budget definition for a priority tier.
func LevelFor(p Priority) (Level, bool) {
	level, ok := levels[p]
	return level, ok
}

// Valid reports whether p is a known priority tier.
func (p Priority) Valid() bool {
	_, ok := levels[p]
	return ok
}

// Levels returns the priority tiers in severity order, most severe first.
func Levels() []Priority {
	out := make([]Priority, len(tierOrder))
	copy(out, tierOrder)
	return out
}
