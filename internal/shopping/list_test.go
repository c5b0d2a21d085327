package shopping

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/database"
	"child-meal-planner/internal/planner"
)

func samplePlan() *planner.WeeklyPlan {
	rice := planner.LineItem{Ingredient: "Rice", Category: catalog.Grains, GramsPerChild: 50, TotalGrams: 1000, Cost: 45}
	milk := planner.LineItem{Ingredient: "Milk", Category: catalog.Dairy, GramsPerChild: 100, TotalGrams: 2000, Cost: 110}
	dal := planner.LineItem{Ingredient: "Moong Dal", Category: catalog.Pulses, GramsPerChild: 30, TotalGrams: 600, Cost: 72}

	return &planner.WeeklyPlan{
		ID:       "plan-1",
		Children: 20,
		Cost:     45 + 110 + 45 + 72,
		Days: []planner.DayPlan{
			{Day: "Monday", Meals: []planner.MealAllocation{
				{Meal: planner.Breakfast, Items: []planner.LineItem{rice, milk}},
			}},
			{Day: "Tuesday", Meals: []planner.MealAllocation{
				{Meal: planner.Lunch, Items: []planner.LineItem{dal, rice}},
				{Meal: planner.Snack},
			}},
		},
	}
}

func TestBuild(t *testing.T) {
	plan := samplePlan()
	list := Build(plan)

	require.Len(t, list.Items, 3)
	assert.Equal(t, []string{"Rice", "Moong Dal", "Milk"},
		[]string{list.Items[0].Ingredient, list.Items[1].Ingredient, list.Items[2].Ingredient},
		"items should follow category order")

	rice := list.Items[0]
	assert.Equal(t, 2000.0, rice.TotalGrams)
	assert.Equal(t, 90.0, rice.Cost)
	assert.Equal(t, 2, rice.Meals)

	assert.InDelta(t, plan.Cost, list.TotalCost, 1e-9)
	assert.InDelta(t, 4.6, list.TotalKg(), 1e-9)
	assert.Equal(t, "plan-1", list.PlanID)
	assert.Equal(t, 20, list.Children)
}

func TestBuildEmptyPlan(t *testing.T) {
	list := Build(&planner.WeeklyPlan{ID: "empty"})
	assert.Empty(t, list.Items)
	assert.Zero(t, list.TotalCost)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(ctx, filepath.Join(t.TempDir(), "shopping.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.SQL)
	list := Build(samplePlan())

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, list))

		got, err := repo.GetByPlanID(ctx, "plan-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, list.Items, got.Items)
		assert.Equal(t, list.TotalCost, got.TotalCost)
		assert.Equal(t, 20, got.Children)
		assert.WithinDuration(t, list.CreatedAt, got.CreatedAt, time.Second)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		updated := *list
		updated.Items = updated.Items[:1]
		require.NoError(t, repo.Save(ctx, &updated))

		got, err := repo.GetByPlanID(ctx, "plan-1")
		require.NoError(t, err)
		assert.Len(t, got.Items, 1)
	})

	t.Run("Missing", func(t *testing.T) {
		got, err := repo.GetByPlanID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteByPlanID(ctx, "plan-1"))
		got, err := repo.GetByPlanID(ctx, "plan-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
