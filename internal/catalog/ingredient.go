package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"child-meal-planner/internal/nutrition"
)

// Category groups ingredients for meal eligibility.
type Category string

const (
	Grains     Category = "Grains"
	Pulses     Category = "Pulses"
	Vegetables Category = "Vegetables"
	Dairy      Category = "Dairy"
	Protein    Category = "Protein"
	Fats       Category = "Fats"
	Fruits     Category = "Fruits"
	Sweetener  Category = "Sweetener"
	Nuts       Category = "Nuts"
)

// Categories is the set of known categories in display order.
var Categories = []Category{Grains, Pulses, Vegetables, Dairy, Protein, Fats, Fruits, Sweetener, Nuts}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Ingredient is a single catalog entry. Nutrients are per 100 g.
type Ingredient struct {
	Name      string              `json:"name" yaml:"name"`
	Category  Category            `json:"category" yaml:"category"`
	CostPerKg float64             `json:"cost_per_kg" yaml:"cost_per_kg"`
	Per100g   nutrition.Nutrients `json:"per_100g" yaml:"per_100g"`
}

var (
	// ErrNotFound is returned when a named ingredient is absent.
	ErrNotFound = errors.New("ingredient not found")
	// ErrDuplicate is returned when two entries share a name.
	ErrDuplicate = errors.New("duplicate ingredient name")
)

// Validate checks the ingredient invariants: a name, a known category and
// non-negative cost and nutrient values.
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("ingredient name is empty")
	}
	if _, err := ParseCategory(string(i.Category)); err != nil {
		return fmt.Errorf("ingredient %s: %w", i.Name, err)
	}
	if i.CostPerKg < 0 || math.IsNaN(i.CostPerKg) || math.IsInf(i.CostPerKg, 0) {
		return fmt.Errorf("ingredient %s: invalid cost per kg %v", i.Name, i.CostPerKg)
	}
	if err := i.Per100g.Validate(); err != nil {
		return fmt.Errorf("ingredient %s: %w", i.Name, err)
	}
	return nil
}

// CostPerGram returns the price of one gram.
func (i Ingredient) CostPerGram() float64 {
	return i.CostPerKg / 1000
}
