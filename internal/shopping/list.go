package shopping

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/planner"
)

// Build aggregates every line item of a plan per ingredient, ordered by
// category and then name.
func Build(plan *planner.WeeklyPlan) *ShoppingList {
	type acc struct {
		item  Item
		grams decimal.Decimal
		cost  decimal.Decimal
	}
	byName := map[string]*acc{}
	total := decimal.Zero

	for _, meal := range plan.Meals() {
		for _, li := range meal.Items {
			a, ok := byName[li.Ingredient]
			if !ok {
				a = &acc{item: Item{Ingredient: li.Ingredient, Category: li.Category}}
				byName[li.Ingredient] = a
			}
			g := decimal.NewFromFloat(li.TotalGrams)
			c := decimal.NewFromFloat(li.Cost)
			a.grams = a.grams.Add(g)
			a.cost = a.cost.Add(c)
			a.item.Meals++
			total = total.Add(c)
		}
	}

	list := &ShoppingList{
		PlanID:    plan.ID,
		Children:  plan.Children,
		Items:     make([]Item, 0, len(byName)),
		TotalCost: total.InexactFloat64(),
		CreatedAt: time.Now().UTC(),
	}
	for _, a := range byName {
		a.item.TotalGrams = a.grams.InexactFloat64()
		a.item.Cost = a.cost.InexactFloat64()
		list.Items = append(list.Items, a.item)
	}

	sort.Slice(list.Items, func(i, j int) bool {
		a, b := list.Items[i], list.Items[j]
		if oa, ob := categoryRank(a.Category), categoryRank(b.Category); oa != ob {
			return oa < ob
		}
		return a.Ingredient < b.Ingredient
	})
	return list
}

// categoryRank orders known categories as the catalog lists them; unknown
// ones sort last.
func categoryRank(c catalog.Category) int {
	for i, known := range catalog.Categories {
		if c == known {
			return i
		}
	}
	return len(catalog.Categories)
}
