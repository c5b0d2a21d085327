package planner

import (
	"time"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/shared"
)

// MealType is one of the four daily meal slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Snack     MealType = "snack"
	Dinner    MealType = "dinner"
)

// MealTypes lists the slots in serving order.
var MealTypes = []MealType{Breakfast, Lunch, Snack, Dinner}

// Weekdays lists the planned days; the index doubles as the variety seed.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var mealShares = map[MealType]float64{
	Breakfast: 0.25,
	Lunch:     0.40,
	Snack:     0.10,
	Dinner:    0.25,
}

var mealPreferences = map[MealType][]catalog.Category{
	Breakfast: {catalog.Grains, catalog.Dairy, catalog.Fruits, catalog.Protein},
	Lunch:     {catalog.Grains, catalog.Pulses, catalog.Vegetables, catalog.Dairy},
	Snack:     {catalog.Fruits, catalog.Dairy, catalog.Nuts, catalog.Sweetener, catalog.Grains},
	Dinner:    {catalog.Grains, catalog.Pulses, catalog.Vegetables, catalog.Protein, catalog.Fats},
}

// Share is the fraction of daily budget and calories given to the meal.
func (m MealType) Share() float64 {
	return mealShares[m]
}

// Prefers reports whether the meal normally draws on category c.
func (m MealType) Prefers(c catalog.Category) bool {
	for _, p := range mealPreferences[m] {
		if p == c {
			return true
		}
	}
	return false
}

// LineItem is one ingredient of a meal.
type LineItem struct {
	Ingredient    string           `json:"ingredient"`
	Category      catalog.Category `json:"category"`
	GramsPerChild float64          `json:"grams_per_child"`
	TotalGrams    float64          `json:"total_grams"`
	Cost          float64          `json:"cost"`
}

// MealAllocation is the result of optimising one meal for the whole group.
// Nutrition is per child; Cost covers every child.
type MealAllocation struct {
	Meal           MealType            `json:"meal"`
	Items          []LineItem          `json:"items"`
	Nutrition      nutrition.Nutrients `json:"nutrition"`
	Cost           float64             `json:"cost"`
	Budget         float64             `json:"budget"`
	TargetCalories float64             `json:"target_calories"`
	Status         shared.SolveStatus  `json:"status"`
	Candidates     int                 `json:"candidates"`
}

// DayPlan holds the four meals of one day and their totals.
type DayPlan struct {
	Day       string              `json:"day"`
	Index     int                 `json:"index"`
	Meals     []MealAllocation    `json:"meals"`
	Nutrition nutrition.Nutrients `json:"nutrition"`
	Cost      float64             `json:"cost"`
	Budget    float64             `json:"budget"`
}

// WeeklyPlan is the complete engine output for one request.
type WeeklyPlan struct {
	ID                 string              `json:"id"`
	CreatedAt          time.Time           `json:"created_at"`
	AgeGroup           nutrition.AgeGroup  `json:"age_group"`
	Children           int                 `json:"children"`
	Budget             float64             `json:"budget"`
	Ingredients        []string            `json:"ingredients"`
	Days               []DayPlan           `json:"days"`
	Nutrition          nutrition.Nutrients `json:"nutrition"`
	Cost               float64             `json:"cost"`
	DailyRequirement   nutrition.Nutrients `json:"daily_requirement"`
	Score              float64             `json:"score"`
	ScoreBreakdown     []NutrientScore     `json:"score_breakdown"`
	CostPerChildPerDay float64             `json:"cost_per_child_per_day"`
	BudgetUtilisation  float64             `json:"budget_utilisation"`
	RelaxedMeals       int                 `json:"relaxed_meals"`
	FailedMeals        int                 `json:"failed_meals"`
}

// Meals iterates every allocation of the week in day and serving order.
func (w *WeeklyPlan) Meals() []MealAllocation {
	meals := make([]MealAllocation, 0, len(w.Days)*len(MealTypes))
	for _, d := range w.Days {
		meals = append(meals, d.Meals...)
	}
	return meals
}
