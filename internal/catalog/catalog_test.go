package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"child-meal-planner/internal/nutrition"
)

func testIngredients() []Ingredient {
	return []Ingredient{
		{Name: "Rice", Category: Grains, CostPerKg: 45, Per100g: nutrition.Nutrients{Calories: 360, Protein: 7, Carbs: 78, Fat: 0.5, Fiber: 1.3, Iron: 0.8, Calcium: 10}},
		{Name: "Moong Dal", Category: Pulses, CostPerKg: 120, Per100g: nutrition.Nutrients{Calories: 347, Protein: 24, Carbs: 59, Fat: 1.2, Fiber: 16, Iron: 4, Calcium: 75}},
		{Name: "Milk", Category: "dairy", CostPerKg: 55, Per100g: nutrition.Nutrients{Calories: 61, Protein: 3.2, Carbs: 4.8, Fat: 3.3, Iron: 0.1, Calcium: 120}},
	}
}

func TestNew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, err := New(testIngredients())
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())

		milk, err := c.lookup("milk")
		require.NoError(t, err)
		assert.Equal(t, Dairy, milk.Category, "category spelling should be canonical")
	})

	t.Run("Duplicate", func(t *testing.T) {
		ings := append(testIngredients(), Ingredient{Name: "RICE ", Category: Grains, CostPerKg: 50})
		_, err := New(ings)
		require.ErrorIs(t, err, ErrDuplicate)
		assert.Contains(t, err.Error(), "RICE")
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := New([]Ingredient{{Name: "Tofu", Category: "Soy", CostPerKg: 200}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})

	t.Run("NegativeCost", func(t *testing.T) {
		_, err := New([]Ingredient{{Name: "Oats", Category: Grains, CostPerKg: -1}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cost per kg")
	})

	t.Run("NegativeNutrient", func(t *testing.T) {
		_, err := New([]Ingredient{{Name: "Oats", Category: Grains, CostPerKg: 80, Per100g: nutrition.Nutrients{Protein: -2}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "protein")
	})
}

func TestCatalogSelect(t *testing.T) {
	c, err := New(testIngredients())
	require.NoError(t, err)

	found, missing := c.Select([]string{"Milk", "Paneer", "rice", "Milk"})
	require.Len(t, found, 2)
	assert.Equal(t, "Milk", found[0].Name)
	assert.Equal(t, "Rice", found[1].Name)
	assert.Equal(t, []string{"Paneer"}, missing)

	found, missing = c.Select(nil)
	assert.Empty(t, found)
	assert.Empty(t, missing)
}

func TestCatalogGetNotFound(t *testing.T) {
	c, err := New(testIngredients())
	require.NoError(t, err)

	_, err = c.lookup("Quinoa")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogByCategory(t *testing.T) {
	c, err := New(append(testIngredients(), Ingredient{Name: "Wheat Flour", Category: Grains, CostPerKg: 40}))
	require.NoError(t, err)

	groups := c.ByCategory()
	require.Len(t, groups[Grains], 2)
	assert.Equal(t, "Rice", groups[Grains][0].Name)
	assert.Equal(t, "Wheat Flour", groups[Grains][1].Name)
	assert.Len(t, groups[Dairy], 1)
}
