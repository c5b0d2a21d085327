package planner

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/sampleuv"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/logging"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/shared"
	"child-meal-planner/internal/solver"
)

const (
	calorieFloor   = 0.8
	calorieCeiling = 1.3

	weightProtein = 2.0
	weightFiber   = 1.0
	weightIron    = 0.5
	weightCalcium = 0.01
)

// MealRequest describes one meal slot to optimise.
type MealRequest struct {
	Meal           MealType
	Candidates     []catalog.Ingredient
	Budget         float64
	Children       int
	TargetCalories float64
	// Source drives candidate sampling. It is owned by the calling day.
	Source rand.Source
}

// MealGenerator turns a candidate set into a budget-bounded meal by solving
// a linear program over per-child gram quantities.
type MealGenerator struct {
	solver        solver.Solver
	cap           float64
	maxCandidates int
	minLineGrams  float64
}

// NewMealGenerator builds a generator from the planner options.
func NewMealGenerator(s solver.Solver, opts Options) *MealGenerator {
	return &MealGenerator{
		solver:        s,
		cap:           opts.IngredientCap,
		maxCandidates: opts.MaxCandidates,
		minLineGrams:  opts.MinLineGrams,
	}
}

// Generate optimises one meal. Infeasibility is absorbed: the meal is
// re-solved without the calorie floor and flagged relaxed. Other solver
// failures yield an empty meal flagged failed. Only cancellation of ctx is
// returned as an error.
func (g *MealGenerator) Generate(ctx context.Context, req MealRequest) (MealAllocation, time.Duration, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("meal", req.Meal)

	if len(req.Candidates) == 0 {
		return MealAllocation{}, 0, ErrNoIngredients
	}
	if req.Children <= 0 {
		return MealAllocation{}, 0, ErrInvalidChildren
	}

	candidates := g.eligible(req.Meal, req.Candidates, req.Source)
	alloc := MealAllocation{
		Meal:           req.Meal,
		Budget:         req.Budget,
		TargetCalories: req.TargetCalories,
		Candidates:     len(candidates),
		Status:         shared.StatusOptimal,
	}

	start := time.Now()
	problem := g.buildProblem(candidates, req)
	sol, err := g.solver.Solve(ctx, problem)
	if errors.Is(err, solver.ErrInfeasible) {
		logger.V(logging.DEBUG).Info("Calorie band unreachable within budget, dropping calorie floor",
			"budget", req.Budget, "targetCalories", req.TargetCalories)
		alloc.Status = shared.StatusRelaxed
		sol, err = g.solver.Solve(ctx, relax(problem))
	}
	latency := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return MealAllocation{}, latency, ctxErr
		}
		logger.Info("Meal solve failed, leaving meal empty", "error", err.Error())
		alloc.Status = shared.StatusFailed
		return alloc, latency, nil
	}

	alloc.Items, alloc.Nutrition, alloc.Cost = g.allocate(candidates, sol.X, req.Children, req.Budget)
	logger.V(logging.TRACE).Info("Meal solved", "status", alloc.Status, "items", len(alloc.Items),
		"cost", alloc.Cost, "calories", alloc.Nutrition.Calories)
	return alloc, latency, nil
}

// eligible keeps the candidates the meal prefers, falling back to all of
// them, and samples at most maxCandidates using src.
func (g *MealGenerator) eligible(meal MealType, candidates []catalog.Ingredient, src rand.Source) []catalog.Ingredient {
	var preferred []catalog.Ingredient
	for _, ing := range candidates {
		if meal.Prefers(ing.Category) {
			preferred = append(preferred, ing)
		}
	}
	if len(preferred) == 0 {
		preferred = candidates
	}

	if g.maxCandidates <= 0 || len(preferred) <= g.maxCandidates {
		return preferred
	}

	idxs := make([]int, g.maxCandidates)
	sampleuv.WithoutReplacement(idxs, len(preferred), src)
	sort.Ints(idxs)

	sampled := make([]catalog.Ingredient, len(idxs))
	for i, idx := range idxs {
		sampled[i] = preferred[idx]
	}
	return sampled
}

// buildProblem lays out: maximise weighted nutrient value, subject to group
// cost <= budget and calories within [0.8, 1.3] x target, each quantity
// capped at the per-ingredient limit.
func (g *MealGenerator) buildProblem(candidates []catalog.Ingredient, req MealRequest) solver.Problem {
	n := len(candidates)
	objective := make([]float64, n)
	cost := make([]float64, n)
	calories := make([]float64, n)
	upper := make([]float64, n)

	for i, ing := range candidates {
		perGram := ing.Per100g.ForGrams(1)
		objective[i] = weightProtein*perGram.Protein +
			weightFiber*perGram.Fiber +
			weightIron*perGram.Iron +
			weightCalcium*perGram.Calcium
		cost[i] = ing.CostPerGram() * float64(req.Children)
		calories[i] = perGram.Calories
		upper[i] = g.cap
	}

	return solver.Problem{
		Objective: objective,
		Maximize:  true,
		Constraints: []solver.Constraint{
			{Coeffs: cost, Op: solver.LessEq, RHS: req.Budget},
			{Coeffs: calories, Op: solver.GreaterEq, RHS: calorieFloor * req.TargetCalories},
			{Coeffs: calories, Op: solver.LessEq, RHS: calorieCeiling * req.TargetCalories},
		},
		Upper: upper,
	}
}

// relax drops the calorie floor; zero quantities then always satisfy the
// remaining rows.
func relax(p solver.Problem) solver.Problem {
	relaxed := p
	relaxed.Constraints = nil
	for _, c := range p.Constraints {
		if c.Op == solver.GreaterEq {
			continue
		}
		relaxed.Constraints = append(relaxed.Constraints, c)
	}
	return relaxed
}

// allocate converts solver quantities into line items. Quantities are
// rounded to 0.1 g and every total is derived from the rounded values; if
// rounding up would break the budget the quantities are truncated instead.
func (g *MealGenerator) allocate(candidates []catalog.Ingredient, x []float64, children int, budget float64) ([]LineItem, nutrition.Nutrients, float64) {
	round := func(d decimal.Decimal) decimal.Decimal { return d.Round(1) }

	items, total, cost := g.lineItems(candidates, x, children, round)
	if cost.GreaterThan(decimal.NewFromFloat(budget)) {
		trunc := func(d decimal.Decimal) decimal.Decimal { return d.Truncate(1) }
		items, total, cost = g.lineItems(candidates, x, children, trunc)
	}
	return items, total, cost.InexactFloat64()
}

func (g *MealGenerator) lineItems(
	candidates []catalog.Ingredient,
	x []float64,
	children int,
	round func(decimal.Decimal) decimal.Decimal,
) ([]LineItem, nutrition.Nutrients, decimal.Decimal) {
	var (
		items []LineItem
		total nutrition.Nutrients
		cost  = decimal.Zero
	)
	group := decimal.NewFromInt(int64(children))
	perKg := decimal.NewFromInt(1000)

	for i, ing := range candidates {
		if x[i] <= g.minLineGrams {
			continue
		}
		grams := round(decimal.NewFromFloat(x[i]))
		if c := decimal.NewFromFloat(g.cap); grams.GreaterThan(c) {
			grams = c
		}
		lineCost := grams.Mul(decimal.NewFromFloat(ing.CostPerKg)).Div(perKg).Mul(group)

		gramsF := grams.InexactFloat64()
		items = append(items, LineItem{
			Ingredient:    ing.Name,
			Category:      ing.Category,
			GramsPerChild: gramsF,
			TotalGrams:    grams.Mul(group).InexactFloat64(),
			Cost:          lineCost.InexactFloat64(),
		})
		total = total.Add(ing.Per100g.ForGrams(gramsF))
		cost = cost.Add(lineCost)
	}
	return items, total, cost
}
