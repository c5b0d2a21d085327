package planner

import (
	"fmt"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/nutrition"
)

// referenceIngredients is the three-item catalog from the reference scenario.
func referenceIngredients() []catalog.Ingredient {
	return []catalog.Ingredient{
		{Name: "Rice", Category: catalog.Grains, CostPerKg: 45,
			Per100g: nutrition.Nutrients{Calories: 360, Protein: 7, Carbs: 78, Fat: 0.5, Fiber: 1.3, Iron: 0.8, Calcium: 10}},
		{Name: "Moong Dal", Category: catalog.Pulses, CostPerKg: 120,
			Per100g: nutrition.Nutrients{Calories: 347, Protein: 24, Carbs: 59, Fat: 1.2, Fiber: 16, Iron: 4.4, Calcium: 75}},
		{Name: "Milk", Category: catalog.Dairy, CostPerKg: 55,
			Per100g: nutrition.Nutrients{Calories: 61, Protein: 3.2, Carbs: 4.8, Fat: 3.3, Fiber: 0, Iron: 0.1, Calcium: 120}},
	}
}

// richIngredients adds enough variety for every meal slot and more than
// twelve grains so that sampling kicks in.
func richIngredients() []catalog.Ingredient {
	ings := referenceIngredients()
	ings = append(ings,
		catalog.Ingredient{Name: "Spinach", Category: catalog.Vegetables, CostPerKg: 40,
			Per100g: nutrition.Nutrients{Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4, Fiber: 2.2, Iron: 2.7, Calcium: 99}},
		catalog.Ingredient{Name: "Banana", Category: catalog.Fruits, CostPerKg: 50,
			Per100g: nutrition.Nutrients{Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3, Fiber: 2.6, Iron: 0.3, Calcium: 5}},
		catalog.Ingredient{Name: "Egg", Category: catalog.Protein, CostPerKg: 130,
			Per100g: nutrition.Nutrients{Calories: 155, Protein: 13, Carbs: 1.1, Fat: 11, Fiber: 0, Iron: 1.2, Calcium: 50}},
		catalog.Ingredient{Name: "Peanuts", Category: catalog.Nuts, CostPerKg: 140,
			Per100g: nutrition.Nutrients{Calories: 567, Protein: 25.8, Carbs: 16, Fat: 49, Fiber: 8.5, Iron: 4.6, Calcium: 92}},
		catalog.Ingredient{Name: "Jaggery", Category: catalog.Sweetener, CostPerKg: 60,
			Per100g: nutrition.Nutrients{Calories: 383, Protein: 0.4, Carbs: 98, Fat: 0.1, Fiber: 0, Iron: 11, Calcium: 80}},
		catalog.Ingredient{Name: "Groundnut Oil", Category: catalog.Fats, CostPerKg: 180,
			Per100g: nutrition.Nutrients{Calories: 884, Fat: 100}},
	)
	for i := 1; i <= 13; i++ {
		ings = append(ings, catalog.Ingredient{
			Name:      fmt.Sprintf("Millet %02d", i),
			Category:  catalog.Grains,
			CostPerKg: 30 + float64(i)*3,
			Per100g: nutrition.Nutrients{
				Calories: 330 + float64(i), Protein: 6 + float64(i)/2, Carbs: 70, Fat: 2,
				Fiber: 3 + float64(i)/3, Iron: 2 + float64(i)/4, Calcium: 20 + float64(i)*5,
			},
		})
	}
	return ings
}

func names(ings []catalog.Ingredient) []string {
	out := make([]string, len(ings))
	for i, ing := range ings {
		out[i] = ing.Name
	}
	return out
}
