package triage

import "strings"

// Category names used across the routing tables.
const (
	CategoryEquipment  = "Equipment"
	CategoryFacilities = "Facilities"
	CategoryClasses    = "Classes & Instructors"
	CategoryMembership = "Membership & Billing"
	CategoryService    = "Customer Service"
	CategorySafety     = "Safety & Security"
)

// DefaultCategory is returned when no category keyword matches at all.
const DefaultCategory = CategoryService

// categoryOrder fixes iteration order for tie-breaking: the first category to
// reach the maximum hit count keeps the win.
var categoryOrder = []string{
	CategoryEquipment,
	CategoryFacilities,
	CategoryClasses,
	CategoryMembership,
	CategoryService,
	CategorySafety,
}

var categoryKeywords = map[string][]string{
	CategoryEquipment: {
		"treadmill", "elliptical", "rower", "bike", "machine", "rack",
		"dumbbell", "barbell", "weights", "cable", "bench", "equipment",
	},
	CategoryFacilities: {
		"locker", "shower", "sauna", "pool", "bathroom", "toilet",
		"air conditioning", "heating", "lighting", "floor", "mirror",
		"parking", "ceiling", "cleaning",
	},
	CategoryClasses: {
		"class", "instructor", "trainer", "coach", "yoga", "spin",
		"pilates", "zumba", "session", "schedule", "booking", "waitlist",
	},
	CategoryMembership: {
		"membership", "billing", "payment", "charge", "invoice", "refund",
		"subscription", "fee", "contract", "cancel", "freeze", "renewal",
	},
	CategoryService: {
		"front desk", "reception", "staff", "rude", "service", "complaint",
		"wait time", "phone", "email",
	},
	CategorySafety: {
		"theft", "stolen", "injury", "accident", "security", "camera",
		"harassment", "unsafe", "emergency", "first aid",
	},
}

// DetectCategory counts keyword hits per category and returns the one with the
// strictly greatest count. A later category with an equal count does not
// displace an earlier winner. Text matching nothing falls back to
// DefaultCategory.
func DetectCategory(text string) string {
	lowered := strings.ToLower(text)
	best := DefaultCategory
	bestCount := 0
	for _, name := range categoryOrder {
		count := 0
		for _, keyword := range categoryKeywords[name] {
			if strings.Contains(lowered, keyword) {
				count++
			}
		}
		if count > bestCount {
			best = name
			bestCount = count
		}
	}
	return best
}

// classDetailCategories are the in-person service categories whose tickets may
// need the affected class identified before filing.
var classDetailCategories = map[string]bool{
	CategoryClasses: true,
	CategoryService: true,
}

var memberExperienceKeywords = []string{
	"class", "instructor", "trainer", "coach", "session", "workout", "lesson",
}

// RequiresClassDetails reports whether a ticket needs the affected class named
// before it can be created. Critical tickets always do. Otherwise only the
// in-person service categories qualify, and only when the text mentions a
// member-facing activity. Enforcing the class-name field itself is the
// caller's responsibility.
func RequiresClassDetails(text string, priority Priority, category string) bool {
	if priority == PriorityCritical {
		return true
	}
	if !classDetailCategories[category] {
		return false
	}
	lowered := strings.ToLower(text)
	for _, keyword := range memberExperienceKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Categories returns the category names in declared table order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
