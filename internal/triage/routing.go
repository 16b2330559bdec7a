package triage

import (
	"fmt"
	"sort"
)

// Department names referenced by the routing and escalation tables.
const (
	DeptMaintenance = "Maintenance"
	DeptFacilities  = "Facilities"
	DeptFrontDesk   = "Front Desk"
	DeptFitness     = "Fitness"
	DeptBilling     = "Billing"
	DeptSecurity    = "Security"
	DeptOperations  = "Operations"
	DeptManagement  = "Management"
)

// FallbackCategory keys the routing entry used when a category is unknown.
const FallbackCategory = "Miscellaneous"

// DepartmentRouting maps a category to its owning departments. EscalationPath
// is ordered, primary first.
type DepartmentRouting struct {
	Primary        string
	Secondary      string
	EscalationPath []string
}

var departmentRouting = map[string]DepartmentRouting{
	CategoryEquipment: {
		Primary:        DeptMaintenance,
		Secondary:      DeptOperations,
		EscalationPath: []string{DeptMaintenance, DeptOperations, DeptManagement},
	},
	CategoryFacilities: {
		Primary:        DeptFacilities,
		Secondary:      DeptMaintenance,
		EscalationPath: []string{DeptFacilities, DeptMaintenance, DeptManagement},
	},
	CategoryClasses: {
		Primary:        DeptFitness,
		Secondary:      DeptFrontDesk,
		EscalationPath: []string{DeptFitness, DeptManagement},
	},
	CategoryMembership: {
		Primary:        DeptBilling,
		Secondary:      DeptFrontDesk,
		EscalationPath: []string{DeptBilling, DeptManagement},
	},
	CategoryService: {
		Primary:        DeptFrontDesk,
		Secondary:      DeptOperations,
		EscalationPath: []string{DeptFrontDesk, DeptOperations, DeptManagement},
	},
	CategorySafety: {
		Primary:        DeptSecurity,
		Secondary:      DeptManagement,
		EscalationPath: []string{DeptSecurity, DeptManagement},
	},
	FallbackCategory: {
		Primary:        DeptFrontDesk,
		Secondary:      DeptOperations,
		EscalationPath: []string{DeptFrontDesk, DeptManagement},
	},
}

// RoutingFor resolves the departments responsible for a category. Unknown
// categories route to the Miscellaneous fallback; the function never fails.
func RoutingFor(category string) DepartmentRouting {
	if routing, ok := departmentRouting[category]; ok {
		return routing
	}
	return departmentRouting[FallbackCategory]
}

// Departments returns the sorted distinct department names referenced by the
// routing and escalation tables, for seeding and startup validation.
func Departments() []string {
	seen := map[string]bool{}
	for _, routing := range departmentRouting {
		seen[routing.Primary] = true
		seen[routing.Secondary] = true
		for _, dept := range routing.EscalationPath {
			seen[dept] = true
		}
	}
	for _, rule := range escalationRules {
		seen[rule.EscalateTo] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Table consistency is a programming error, caught at package load.
func init() {
	if _, ok := departmentRouting[FallbackCategory]; !ok {
		panic("triage: routing table missing fallback entry")
	}
	for _, category := range categoryOrder {
		if _, ok := departmentRouting[category]; !ok {
			panic(fmt.Sprintf("triage: category %q has no routing entry", category))
		}
	}
	for subtype, rule := range escalationRules {
		if !rule.Priority.Valid() {
			panic(fmt.Sprintf("triage: escalation rule %q has unknown priority %q", subtype, rule.Priority))
		}
	}
	for category, routing := range departmentRouting {
		if len(routing.EscalationPath) == 0 || routing.EscalationPath[0] != routing.Primary {
			panic(fmt.Sprintf("triage: routing for %q must start its escalation path at the primary department", category))
		}
	}
}
