package nutrition

import "strings"

// AgeGroup is one of the fixed child age bands.
type AgeGroup string

const (
	Toddler   AgeGroup = "1-3 years"
	Preschool AgeGroup = "3-6 years"
	School    AgeGroup = "6-10 years"

	// DefaultAgeGroup is used for labels that match no band.
	DefaultAgeGroup = Preschool
)

// AgeGroups lists the supported bands, youngest first.
var AgeGroups = []AgeGroup{Toddler, Preschool, School}

var dailyRequirements = map[AgeGroup]Nutrients{
	Toddler: {
		Calories: 1060, Protein: 16.7, Carbs: 130, Fat: 27, Fiber: 15, Iron: 9, Calcium: 600,
	},
	Preschool: {
		Calories: 1350, Protein: 20.1, Carbs: 130, Fat: 25, Fiber: 20, Iron: 13, Calcium: 600,
	},
	School: {
		Calories: 1690, Protein: 29.5, Carbs: 130, Fat: 30, Fiber: 25, Iron: 16, Calcium: 600,
	},
}

// ParseAgeGroup normalises a free-form label ("3–6 years", "3-6", "3 - 6 Years").
// The second return value is false when the label matches no band, in which
// case DefaultAgeGroup is returned.
func ParseAgeGroup(label string) (AgeGroup, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.NewReplacer("–", "-", "—", "-", " ", "").Replace(l)
	l = strings.TrimSuffix(l, "years")
	l = strings.TrimSuffix(l, "yrs")
	l = strings.TrimSuffix(l, "y")

	for _, g := range AgeGroups {
		band := strings.TrimSuffix(strings.ReplaceAll(string(g), " ", ""), "years")
		if l == band {
			return g, true
		}
	}
	return DefaultAgeGroup, false
}

// RequirementsFor returns the daily nutrient targets for an age-group label.
// Unrecognised labels fall back to the 3-6 years band.
func RequirementsFor(label string) Nutrients {
	g, _ := ParseAgeGroup(label)
	return dailyRequirements[g]
}

// Daily returns the daily targets of a parsed age group.
func (g AgeGroup) Daily() Nutrients {
	if n, ok := dailyRequirements[g]; ok {
		return n
	}
	return dailyRequirements[DefaultAgeGroup]
}
