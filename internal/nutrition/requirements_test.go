package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeGroup(t *testing.T) {
	tests := []struct {
		label string
		want  AgeGroup
		ok    bool
	}{
		{"1-3 years", Toddler, true},
		{"1–3 years", Toddler, true},
		{"3-6 years", Preschool, true},
		{"3 - 6 Years", Preschool, true},
		{"6-10", School, true},
		{"6–10 yrs", School, true},
		{"teenager", DefaultAgeGroup, false},
		{"", DefaultAgeGroup, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseAgeGroup(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRequirementsFor(t *testing.T) {
	t.Run("Preschool", func(t *testing.T) {
		req := RequirementsFor("3–6 years")
		assert.Equal(t, 1350.0, req.Calories)
		assert.Equal(t, 20.1, req.Protein)
	})

	t.Run("UnknownFallsBackToPreschool", func(t *testing.T) {
		assert.Equal(t, RequirementsFor("3-6 years"), RequirementsFor("adults"))
	})

	t.Run("BandsIncreaseWithAge", func(t *testing.T) {
		toddler := Toddler.Daily()
		school := School.Daily()
		assert.Less(t, toddler.Calories, school.Calories)
		assert.Less(t, toddler.Protein, school.Protein)
	})

	t.Run("AllTargetsPositive", func(t *testing.T) {
		for _, g := range AgeGroups {
			daily := g.Daily()
			for _, n := range All {
				require.Greater(t, daily.Get(n), 0.0, "%s %s", g, n)
			}
		}
	})
}

func TestNutrientsArithmetic(t *testing.T) {
	rice := Nutrients{Calories: 360, Protein: 7, Carbs: 78, Fat: 0.5, Fiber: 1.3, Iron: 0.8, Calcium: 10}

	half := rice.ForGrams(50)
	assert.InDelta(t, 180, half.Calories, 1e-9)
	assert.InDelta(t, 3.5, half.Protein, 1e-9)

	sum := half.Add(half)
	assert.InDelta(t, rice.Calories, sum.Calories, 1e-9)
	assert.InDelta(t, rice.Calcium, sum.Calcium, 1e-9)

	require.NoError(t, rice.Validate())

	bad := rice
	bad.Iron = -1
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iron")
}
