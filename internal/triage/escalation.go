package triage

// NotifyScope controls who is alerted when an escalation rule fires.
type NotifyScope string

const (
	NotifyAll        NotifyScope = "all"
	NotifyManagement NotifyScope = "management"
	NotifyDepartment NotifyScope = "department"
)

// EscalationRule overrides routing and priority for a specific issue subtype.
type EscalationRule struct {
	EscalateTo string
	Priority   Priority
	Immediate  bool
	Notify     NotifyScope
}

var escalationRules = map[string]EscalationRule{
	"Theft": {
		EscalateTo: DeptSecurity,
		Priority:   PriorityCritical,
		Immediate:  true,
		Notify:     NotifyAll,
	},
	"Injury": {
		EscalateTo: DeptManagement,
		Priority:   PriorityCritical,
		Immediate:  true,
		Notify:     NotifyManagement,
	},
	"Harassment": {
		EscalateTo: DeptManagement,
		Priority:   PriorityCritical,
		Immediate:  true,
		Notify:     NotifyManagement,
	},
	"Fire Hazard": {
		EscalateTo: DeptMaintenance,
		Priority:   PriorityCritical,
		Immediate:  true,
		Notify:     NotifyAll,
	},
	"Water Leak": {
		EscalateTo: DeptMaintenance,
		Priority:   PriorityHigh,
		Immediate:  true,
		Notify:     NotifyDepartment,
	},
	"Equipment Damage": {
		EscalateTo: DeptMaintenance,
		Priority:   PriorityHigh,
		Immediate:  false,
		Notify:     NotifyDepartment,
	},
	"Billing Dispute": {
		EscalateTo: DeptBilling,
		Priority:   PriorityHigh,
		Immediate:  false,
		Notify:     NotifyDepartment,
	},
	"Instructor Complaint": {
		EscalateTo: DeptManagement,
		Priority:   PriorityHigh,
		Immediate:  false,
		Notify:     NotifyManagement,
	},
}

// EscalationRuleFor looks up the rule for an issue subtype. Matching is exact
// and case-sensitive; unknown subtypes report false rather than guessing.
func EscalationRuleFor(subtype string) (EscalationRule, bool) {
	rule, ok := escalationRules[subtype]
	return rule, ok
}

// EscalationSubtypes returns the subtype keys that carry an escalation rule.
func EscalationSubtypes() []string {
	out := make([]string, 0, len(escalationRules))
	for subtype := range escalationRules {
		out = append(out, subtype)
	}
	return out
}
