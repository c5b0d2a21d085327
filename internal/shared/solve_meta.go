package shared

import (
	"time"
)

// SolveStatus is the outcome of a single meal optimisation.
type SolveStatus string

const (
	StatusOptimal SolveStatus = "optimal"
	StatusRelaxed SolveStatus = "relaxed"
	StatusFailed  SolveStatus = "failed"
)

// SolveMeta holds operational metadata for one meal solve.
type SolveMeta struct {
	PlanID     string
	Day        string
	Meal       string
	Status     SolveStatus
	Candidates int
	Latency    time.Duration
}
