package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/shared"
	"child-meal-planner/internal/solver"
)

var (
	// ErrNoIngredients is returned when the selection is empty or matches
	// nothing in the catalog.
	ErrNoIngredients = errors.New("no ingredients to plan with")
	// ErrInvalidBudget is returned for a non-positive or non-finite budget.
	ErrInvalidBudget = errors.New("budget must be a positive amount")
	// ErrInvalidChildren is returned for a non-positive child count.
	ErrInvalidChildren = errors.New("number of children must be positive")
)

// Options tunes the planner.
type Options struct {
	// IngredientCap is the per-ingredient per-meal limit in grams per child.
	IngredientCap float64
	// MaxCandidates bounds the ingredients offered to a single solve.
	MaxCandidates int
	// MinLineGrams drops solved quantities at or below this many grams.
	MinLineGrams float64
	// Seed is mixed with the weekday index to seed candidate sampling.
	Seed uint64
	// Parallel assembles the seven days concurrently.
	Parallel bool
}

// DefaultOptions returns the standard planner configuration.
func DefaultOptions() Options {
	return Options{
		IngredientCap: 200,
		MaxCandidates: 12,
		MinLineGrams:  5,
	}
}

// Request is a single weekly planning request.
type Request struct {
	Budget      float64
	Children    int
	AgeGroup    string
	Ingredients []string
}

// Validate fails fast on inputs the optimiser cannot work with.
func (r Request) Validate() error {
	if r.Budget <= 0 || math.IsNaN(r.Budget) || math.IsInf(r.Budget, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidBudget, r.Budget)
	}
	if r.Children <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChildren, r.Children)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: selection is empty", ErrNoIngredients)
	}
	return nil
}

// Planner handles the generation of weekly meal plans.
type Planner struct {
	catalog   *catalog.Catalog
	generator *MealGenerator
	opts      Options
}

// NewPlanner creates a new Planner over a read-only catalog snapshot.
func NewPlanner(c *catalog.Catalog, s solver.Solver, opts Options) *Planner {
	return &Planner{
		catalog:   c,
		generator: NewMealGenerator(s, opts),
		opts:      opts,
	}
}

// GeneratePlan optimises 28 meals (four per day, Monday to Sunday) and
// scores the week. It also returns one SolveMeta per meal solve.
func (p *Planner) GeneratePlan(ctx context.Context, req Request) (*WeeklyPlan, []shared.SolveMeta, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logr.FromContextOrDiscard(ctx)

	candidates, missing := p.catalog.Select(req.Ingredients)
	if len(missing) > 0 {
		logger.Info("Ignoring selected ingredients missing from catalog", "missing", missing)
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("%w: none of the %d selected ingredients are in the catalog",
			ErrNoIngredients, len(req.Ingredients))
	}

	ageGroup, known := nutrition.ParseAgeGroup(req.AgeGroup)
	if !known {
		logger.Info("Unrecognised age group, using default", "ageGroup", req.AgeGroup, "default", ageGroup)
	}
	daily := ageGroup.Daily()

	plan := &WeeklyPlan{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		AgeGroup:         ageGroup,
		Children:         req.Children,
		Budget:           req.Budget,
		DailyRequirement: daily,
	}
	for _, ing := range candidates {
		plan.Ingredients = append(plan.Ingredients, ing.Name)
	}

	logger = logger.WithValues("plan", plan.ID)
	ctx = logr.NewContext(ctx, logger)
	logger.Info("Generating weekly plan", "budget", req.Budget, "children", req.Children,
		"ageGroup", ageGroup, "ingredients", len(candidates), "parallel", p.opts.Parallel)

	days, metas, err := p.assembleWeek(ctx, plan.ID, candidates, req.Budget/daysPerWeek, req.Children, daily)
	if err != nil {
		return nil, nil, err
	}

	plan.Days = days
	for _, d := range days {
		plan.Nutrition = plan.Nutrition.Add(d.Nutrition)
		plan.Cost += d.Cost
		for _, m := range d.Meals {
			switch m.Status {
			case shared.StatusRelaxed:
				plan.RelaxedMeals++
			case shared.StatusFailed:
				plan.FailedMeals++
			}
		}
	}

	plan.Score, plan.ScoreBreakdown = Score(plan.Nutrition, daily)
	plan.CostPerChildPerDay, err = perChildPerDay(plan.Cost, req.Children, len(days))
	if err != nil {
		return nil, nil, err
	}
	plan.BudgetUtilisation = plan.Cost / req.Budget * 100

	logger.Info("Weekly plan ready", "score", plan.Score, "cost", plan.Cost,
		"relaxedMeals", plan.RelaxedMeals, "failedMeals", plan.FailedMeals)
	return plan, metas, nil
}

// assembleWeek runs the day assembler for each weekday. In parallel mode the
// days run concurrently; results are identical because every day owns its
// random source and shares nothing mutable.
func (p *Planner) assembleWeek(
	ctx context.Context,
	planID string,
	candidates []catalog.Ingredient,
	dailyBudget float64,
	children int,
	daily nutrition.Nutrients,
) ([]DayPlan, []shared.SolveMeta, error) {
	days := make([]DayPlan, len(Weekdays))
	dayMetas := make([][]shared.SolveMeta, len(Weekdays))

	build := func(ctx context.Context, i int) error {
		day, metas, err := p.assembleDay(ctx, dayRequest{
			planID:     planID,
			index:      i,
			candidates: candidates,
			budget:     dailyBudget,
			children:   children,
			daily:      daily,
		})
		if err != nil {
			return fmt.Errorf("failed to plan %s: %w", Weekdays[i], err)
		}
		days[i], dayMetas[i] = day, metas
		return nil
	}

	if p.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range Weekdays {
			g.Go(func() error { return build(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range Weekdays {
			if err := build(ctx, i); err != nil {
				return nil, nil, err
			}
		}
	}

	var metas []shared.SolveMeta
	for _, m := range dayMetas {
		metas = append(metas, m...)
	}
	return days, metas, nil
}

func perChildPerDay(cost float64, children, days int) (float64, error) {
	if children <= 0 {
		return 0, ErrInvalidChildren
	}
	if days <= 0 {
		return 0, errors.New("plan has no days")
	}
	return cost / float64(children*days), nil
}
