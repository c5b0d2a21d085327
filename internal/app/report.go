package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/metrics"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/planner"
	"child-meal-planner/internal/shared"
	"child-meal-planner/internal/shopping"
)

func writePlan(w io.Writer, plan *planner.WeeklyPlan, list *shopping.ShoppingList) error {
	fmt.Fprintf(w, "Plan %s\n", plan.ID)
	fmt.Fprintf(w, "Age group: %s | Children: %d | Budget: %.2f\n", plan.AgeGroup, plan.Children, plan.Budget)

	fmt.Fprintln(w, "\n=== WEEKLY MEAL PLAN ===")
	for _, day := range plan.Days {
		fmt.Fprintf(w, "\n%s (cost %.2f, %.0f kcal per child)\n", day.Day, day.Cost, day.Nutrition.Calories)
		for _, meal := range day.Meals {
			status := ""
			if meal.Status != shared.StatusOptimal {
				status = fmt.Sprintf(" [%s]", meal.Status)
			}
			fmt.Fprintf(w, "  %-9s %.2f / %.2f%s\n", meal.Meal, meal.Cost, meal.Budget, status)
			for _, it := range meal.Items {
				fmt.Fprintf(w, "    - %s: %.1f g per child (%.1f g total)\n", it.Ingredient, it.GramsPerChild, it.TotalGrams)
			}
		}
	}

	fmt.Fprintln(w, "\n=== NUTRITION (per child, week) ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Nutrient\tTarget\tAchieved\tScore")
	for _, ns := range plan.ScoreBreakdown {
		unit := ns.Nutrient.Unit()
		fmt.Fprintf(tw, "%s\t%.1f %s\t%.1f %s\t%.1f\n", ns.Nutrient, ns.Target, unit, ns.Achieved, unit, ns.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nNutrition score: %.1f / 100\n", plan.Score)
	fmt.Fprintf(w, "Total cost: %.2f (%.1f%% of budget, %.2f per child per day)\n",
		plan.Cost, plan.BudgetUtilisation, plan.CostPerChildPerDay)
	if plan.RelaxedMeals > 0 || plan.FailedMeals > 0 {
		fmt.Fprintf(w, "Relaxed meals: %d | Failed meals: %d\n", plan.RelaxedMeals, plan.FailedMeals)
	}

	fmt.Fprintln(w)
	return writeShoppingList(w, list)
}

func writeShoppingList(w io.Writer, list *shopping.ShoppingList) error {
	fmt.Fprintln(w, "=== SHOPPING LIST ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Ingredient\tCategory\tQuantity\tCost")
	for _, it := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f kg\t%.2f\n", it.Ingredient, it.Category, it.TotalGrams/1000, it.Cost)
	}
	fmt.Fprintf(tw, "Total\t\t%.2f kg\t%.2f\n", list.TotalKg(), list.TotalCost)
	return tw.Flush()
}

func writeCatalog(w io.Writer, c *catalog.Catalog) error {
	if c.Len() == 0 {
		fmt.Fprintln(w, "The catalog is empty. Run import-catalog first.")
		return nil
	}

	groups := c.ByCategory()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"Name", "Cost/kg"}
	for _, n := range nutrition.All {
		header = append(header, fmt.Sprintf("%s (%s)", n, n.Unit()))
	}

	for _, cat := range categoriesIn(groups) {
		fmt.Fprintf(tw, "\n%s\n", cat)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, ing := range groups[cat] {
			row := []string{ing.Name, fmt.Sprintf("%.2f", ing.CostPerKg)}
			for _, n := range nutrition.All {
				row = append(row, fmt.Sprintf("%.1f", ing.Per100g.Get(n)))
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d ingredients.\n", c.Len())
	return nil
}

// categoriesIn returns the known categories present in groups, followed by
// any others.
func categoriesIn(groups map[catalog.Category][]catalog.Ingredient) []catalog.Category {
	var out []catalog.Category
	seen := map[catalog.Category]bool{}
	for _, cat := range catalog.Categories {
		if len(groups[cat]) > 0 {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	var rest []catalog.Category
	for cat := range groups {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

func writeStats(w io.Writer, usage []metrics.DailyUsage, health metrics.SysHealth) error {
	fmt.Fprintln(w, "=== SOLVES (per day) ===")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tPlans\tSolves\tOptimal\tRelaxed\tFailed\tAvg ms")
	for _, u := range usage {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			u.Date, u.Plans, u.Solves, u.Optimal, u.Relaxed, u.Failed, u.AvgLatencyMS)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== SYSTEM ===")
	fmt.Fprintf(w, "Memory: %d MB allocated, %d MB from OS, %d GC cycles\n", health.AllocMB, health.SysMB, health.NumGC)
	fmt.Fprintf(w, "Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(w, "Database size: %s\n", health.DatabaseSize)
	return nil
}
