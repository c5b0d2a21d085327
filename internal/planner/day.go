package planner

import (
	"context"
	"math/rand/v2"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/shared"
)

type dayRequest struct {
	planID     string
	index      int
	candidates []catalog.Ingredient
	budget     float64
	children   int
	daily      nutrition.Nutrients
}

// daySource returns the random source owning one day's sampling. It depends
// only on the plan seed and the weekday index.
func daySource(seed uint64, index int) rand.Source {
	return rand.NewPCG(seed, uint64(index))
}

// assembleDay optimises the four meals of one day in serving order, giving
// each its share of the daily budget and calorie target.
func (p *Planner) assembleDay(ctx context.Context, req dayRequest) (DayPlan, []shared.SolveMeta, error) {
	day := DayPlan{
		Day:    Weekdays[req.index],
		Index:  req.index,
		Meals:  make([]MealAllocation, 0, len(MealTypes)),
		Budget: req.budget,
	}
	metas := make([]shared.SolveMeta, 0, len(MealTypes))
	src := daySource(p.opts.Seed, req.index)

	for _, meal := range MealTypes {
		alloc, latency, err := p.generator.Generate(ctx, MealRequest{
			Meal:           meal,
			Candidates:     req.candidates,
			Budget:         req.budget * meal.Share(),
			Children:       req.children,
			TargetCalories: req.daily.Calories * meal.Share(),
			Source:         src,
		})
		if err != nil {
			return DayPlan{}, nil, err
		}

		day.Meals = append(day.Meals, alloc)
		day.Nutrition = day.Nutrition.Add(alloc.Nutrition)
		day.Cost += alloc.Cost

		metas = append(metas, shared.SolveMeta{
			PlanID:     req.planID,
			Day:        day.Day,
			Meal:       string(meal),
			Status:     alloc.Status,
			Candidates: alloc.Candidates,
			Latency:    latency,
		})
	}

	return day, metas, nil
}
