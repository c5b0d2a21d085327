package planner

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"child-meal-planner/internal/catalog"
	"child-meal-planner/internal/nutrition"
	"child-meal-planner/internal/shared"
	"child-meal-planner/internal/solver"
)

const costTolerance = 0.01

func newTestPlanner(ings []catalog.Ingredient, opts Options) *Planner {
	c, err := catalog.New(ings)
	Expect(err).NotTo(HaveOccurred())
	return NewPlanner(c, solver.NewSimplex(10*time.Second), opts)
}

func expectNutrientsEqual(actual, expected nutrition.Nutrients) {
	for _, n := range nutrition.All {
		Expect(actual.Get(n)).To(BeNumerically("~", expected.Get(n), 1e-6), string(n))
	}
}

var _ = Describe("GeneratePlan", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with the reference three-ingredient catalog", func() {
		var (
			plan  *WeeklyPlan
			metas []shared.SolveMeta
		)

		BeforeEach(func() {
			p := newTestPlanner(referenceIngredients(), DefaultOptions())
			var err error
			plan, metas, err = p.GeneratePlan(ctx, Request{
				Budget:      2000,
				Children:    20,
				AgeGroup:    "3–6 years",
				Ingredients: []string{"Rice", "Moong Dal", "Milk"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should plan seven days of four meals", func() {
			Expect(plan.Days).To(HaveLen(7))
			for i, d := range plan.Days {
				Expect(d.Day).To(Equal(Weekdays[i]))
				Expect(d.Meals).To(HaveLen(4))
				for j, m := range d.Meals {
					Expect(m.Meal).To(Equal(MealTypes[j]))
				}
			}
			Expect(metas).To(HaveLen(28))
		})

		It("should stay within the weekly budget", func() {
			Expect(plan.Cost).To(BeNumerically("<=", 2000+costTolerance))
			Expect(plan.Cost).To(BeNumerically(">", 0))
		})

		It("should keep every meal within its own budget", func() {
			for _, m := range plan.Meals() {
				Expect(m.Cost).To(BeNumerically("<=", m.Budget+costTolerance), string(m.Meal))
			}
		})

		It("should land weekly calories near the target band", func() {
			target := 1350.0 * 7
			Expect(plan.Nutrition.Calories).To(BeNumerically(">=", 0.75*target))
			Expect(plan.Nutrition.Calories).To(BeNumerically("<=", 1.3*target+1))
		})

		It("should solve every meal without relaxing", func() {
			Expect(plan.RelaxedMeals).To(BeZero())
			Expect(plan.FailedMeals).To(BeZero())
			for _, m := range metas {
				Expect(m.Status).To(Equal(shared.StatusOptimal))
				Expect(m.PlanID).To(Equal(plan.ID))
			}
		})

		It("should report the requirement vector used", func() {
			Expect(plan.AgeGroup).To(Equal(nutrition.Preschool))
			Expect(plan.DailyRequirement.Calories).To(Equal(1350.0))
			Expect(plan.DailyRequirement.Protein).To(Equal(20.1))
		})

		It("should derive per-child cost figures", func() {
			Expect(plan.CostPerChildPerDay).To(BeNumerically("~", plan.Cost/(20*7), 1e-9))
			Expect(plan.BudgetUtilisation).To(BeNumerically("~", plan.Cost/2000*100, 1e-9))
		})
	})

	Context("with a rich catalog", func() {
		var p *Planner
		var req Request

		BeforeEach(func() {
			ings := richIngredients()
			p = newTestPlanner(ings, DefaultOptions())
			req = Request{Budget: 5000, Children: 25, AgeGroup: "6-10 years", Ingredients: names(ings)}
		})

		It("should aggregate meals into days and days into the week exactly", func() {
			plan, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			var week nutrition.Nutrients
			var weekCost float64
			for _, d := range plan.Days {
				var day nutrition.Nutrients
				var dayCost float64
				for _, m := range d.Meals {
					day = day.Add(m.Nutrition)
					dayCost += m.Cost

					var itemCost float64
					for _, it := range m.Items {
						itemCost += it.Cost
					}
					Expect(itemCost).To(BeNumerically("~", m.Cost, costTolerance))
				}
				expectNutrientsEqual(d.Nutrition, day)
				Expect(d.Cost).To(BeNumerically("~", dayCost, 1e-9))
				week = week.Add(d.Nutrition)
				weekCost += d.Cost
			}
			expectNutrientsEqual(plan.Nutrition, week)
			Expect(plan.Cost).To(BeNumerically("~", weekCost, 1e-9))
		})

		It("should cap every line item and drop negligible quantities", func() {
			plan, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			for _, m := range plan.Meals() {
				Expect(m.Candidates).To(BeNumerically("<=", 12))
				for _, it := range m.Items {
					Expect(it.GramsPerChild).To(BeNumerically("<=", 200))
					Expect(it.GramsPerChild).To(BeNumerically(">=", 5))
					Expect(it.TotalGrams).To(BeNumerically("~", it.GramsPerChild*25, 1e-6))
				}
			}
		})

		It("should produce identical plans for identical inputs", func() {
			first, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			second, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).NotTo(Equal(first.ID))
			Expect(second.Days).To(Equal(first.Days))
			Expect(second.Score).To(Equal(first.Score))
			Expect(second.Cost).To(Equal(first.Cost))
		})

		It("should match the sequential result when days run in parallel", func() {
			sequential, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			opts := DefaultOptions()
			opts.Parallel = true
			parallel, metas, err := newTestPlanner(richIngredients(), opts).GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			Expect(parallel.Days).To(Equal(sequential.Days))
			Expect(metas).To(HaveLen(28))
			Expect(metas[0].Day).To(Equal("Monday"))
			Expect(metas[27].Day).To(Equal("Sunday"))
		})

		It("should keep the score within bounds", func() {
			plan, _, err := p.GeneratePlan(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Score).To(BeNumerically(">=", 0))
			Expect(plan.Score).To(BeNumerically("<=", 100))
			Expect(plan.ScoreBreakdown).To(HaveLen(len(nutrition.All)))
		})
	})

	Context("with a degenerate budget", func() {
		It("should absorb infeasibility and score poorly instead of failing", func() {
			p := newTestPlanner(referenceIngredients(), DefaultOptions())
			plan, metas, err := p.GeneratePlan(ctx, Request{
				Budget: 1, Children: 20, AgeGroup: "3-6 years",
				Ingredients: []string{"Rice", "Moong Dal", "Milk"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.RelaxedMeals).To(Equal(28))
			Expect(plan.Cost).To(BeNumerically("<=", 1+costTolerance))
			Expect(plan.Score).To(BeNumerically("<", 10))
			for _, m := range metas {
				Expect(m.Status).To(Equal(shared.StatusRelaxed))
			}
		})
	})

	Context("with invalid requests", func() {
		var p *Planner

		BeforeEach(func() {
			p = newTestPlanner(referenceIngredients(), DefaultOptions())
		})

		It("should reject an empty selection", func() {
			plan, _, err := p.GeneratePlan(ctx, Request{Budget: 2000, Children: 20, AgeGroup: "3-6 years"})
			Expect(err).To(MatchError(ErrNoIngredients))
			Expect(plan).To(BeNil())
		})

		It("should reject a selection absent from the catalog", func() {
			plan, _, err := p.GeneratePlan(ctx, Request{
				Budget: 2000, Children: 20, Ingredients: []string{"Quinoa", "Tofu"},
			})
			Expect(err).To(MatchError(ErrNoIngredients))
			Expect(err.Error()).To(ContainSubstring("none of the 2 selected"))
			Expect(plan).To(BeNil())
		})

		DescribeTable("should reject non-positive parameters",
			func(budget float64, children int, expected error) {
				_, _, err := p.GeneratePlan(ctx, Request{
					Budget: budget, Children: children, Ingredients: []string{"Rice"},
				})
				Expect(err).To(MatchError(expected))
			},
			Entry("zero budget", 0.0, 20, ErrInvalidBudget),
			Entry("negative budget", -10.0, 20, ErrInvalidBudget),
			Entry("zero children", 2000.0, 0, ErrInvalidChildren),
			Entry("negative children", 2000.0, -3, ErrInvalidChildren),
		)

		It("should stop when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, _, err := p.GeneratePlan(cctx, Request{
				Budget: 2000, Children: 20, Ingredients: []string{"Rice", "Milk"},
			})
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("with an unrecognised age group", func() {
		It("should fall back to the 3-6 years targets", func() {
			p := newTestPlanner(referenceIngredients(), DefaultOptions())
			plan, _, err := p.GeneratePlan(ctx, Request{
				Budget: 2000, Children: 20, AgeGroup: "teens", Ingredients: []string{"Rice", "Milk"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.AgeGroup).To(Equal(nutrition.Preschool))
		})
	})
})
