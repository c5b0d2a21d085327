package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"child-meal-planner/internal/shared"
)

const namespace = "meal_planner"

// Collector keeps in-process counters for one run and can dump them for the
// node exporter textfile collector.
type Collector struct {
	registry *prometheus.Registry
	solves   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	plans    prometheus.Counter
	score    prometheus.Gauge
	cost     prometheus.Gauge
}

// NewCollector registers the planner metrics on a private registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meal_solves_total",
			Help:      "Meal optimisations by meal and outcome.",
		}, []string{"meal", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "meal_solve_duration_seconds",
			Help:      "Time spent solving a single meal.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"meal"}),
		plans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Weekly plans generated.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_plan_score",
			Help:      "Nutrition score of the most recent plan.",
		}),
		cost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_plan_cost",
			Help:      "Total cost of the most recent plan.",
		}),
	}
	c.registry.MustRegister(c.solves, c.latency, c.plans, c.score, c.cost)
	return c
}

// ObserveSolves counts every meal solve and its latency.
func (c *Collector) ObserveSolves(metas []shared.SolveMeta) {
	for _, m := range metas {
		c.solves.WithLabelValues(m.Meal, string(m.Status)).Inc()
		c.latency.WithLabelValues(m.Meal).Observe(m.Latency.Seconds())
	}
}

// ObservePlan records the outcome of one generated plan.
func (c *Collector) ObservePlan(score, cost float64) {
	c.plans.Inc()
	c.score.Set(score)
	c.cost.Set(cost)
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the current values in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
