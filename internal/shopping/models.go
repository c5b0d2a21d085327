package shopping

import (
	"time"

	"child-meal-planner/internal/catalog"
)

// Item is the weekly quantity of one ingredient for the whole group.
type Item struct {
	Ingredient string           `json:"ingredient"`
	Category   catalog.Category `json:"category"`
	TotalGrams float64          `json:"total_grams"`
	Cost       float64          `json:"cost"`
	// Meals counts the meals the ingredient appears in.
	Meals int `json:"meals"`
}

// ShoppingList represents the procurement list for one weekly plan.
type ShoppingList struct {
	PlanID    string    `json:"plan_id"`
	Children  int       `json:"children"`
	Items     []Item    `json:"items"`
	TotalCost float64   `json:"total_cost"`
	CreatedAt time.Time `json:"created_at"`
}

// TotalKg is the summed weight of every item in kilograms.
func (l *ShoppingList) TotalKg() float64 {
	var grams float64
	for _, it := range l.Items {
		grams += it.TotalGrams
	}
	return grams / 1000
}
