package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"child-meal-planner/internal/shared"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.ObserveSolves([]shared.SolveMeta{
		{Meal: "lunch", Status: shared.StatusOptimal, Latency: time.Millisecond},
		{Meal: "lunch", Status: shared.StatusOptimal, Latency: 2 * time.Millisecond},
		{Meal: "snack", Status: shared.StatusRelaxed, Latency: time.Millisecond},
	})
	c.ObservePlan(87.5, 1999.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.solves.WithLabelValues("lunch", "optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.solves.WithLabelValues("snack", "relaxed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.plans))
	assert.Equal(t, 87.5, testutil.ToFloat64(c.score))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))

	t.Run("Registry", func(t *testing.T) {
		expected := `
# HELP meal_planner_plans_total Weekly plans generated.
# TYPE meal_planner_plans_total counter
meal_planner_plans_total 1
# HELP meal_planner_last_plan_cost Total cost of the most recent plan.
# TYPE meal_planner_last_plan_cost gauge
meal_planner_last_plan_cost 1999.2
`
		err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
			"meal_planner_plans_total", "meal_planner_last_plan_cost")
		assert.NoError(t, err)
	})

	t.Run("WriteTextfile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "planner.prom")
		require.NoError(t, c.WriteTextfile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `meal_planner_meal_solves_total{meal="lunch",status="optimal"} 2`)
		assert.Contains(t, string(data), "meal_planner_last_plan_score 87.5")
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}

func TestGetSysHealth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.db")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o600))

	h := GetSysHealth(path)
	assert.Equal(t, "2.0 KB", h.DatabaseSize)
	assert.Positive(t, h.Goroutines)
}
