package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// DefaultTolerance is the pivoting tolerance handed to gonum.
	DefaultTolerance = 1e-10
	// clampEpsilon snaps near-zero and near-bound values onto the boundary.
	clampEpsilon = 1e-9
)

// Simplex solves problems with gonum's simplex method. The zero value is
// usable: no time limit and DefaultTolerance.
type Simplex struct {
	Timeout   time.Duration
	Tolerance float64
}

var _ Solver = (*Simplex)(nil)

// NewSimplex returns a simplex solver bounded by timeout per solve.
func NewSimplex(timeout time.Duration) *Simplex {
	return &Simplex{Timeout: timeout, Tolerance: DefaultTolerance}
}

// standardForm is the problem rewritten as min c·x, A·x = b, x >= 0, with
// slack columns appended after the kept decision variables.
type standardForm struct {
	c    []float64
	a    *mat.Dense
	b    []float64
	kept []int // original index of each leading column
}

type simplexResult struct {
	x   []float64
	err error
}

// Solve implements Solver. When the timeout elapses or ctx is cancelled the
// context error is returned; the abandoned solve finishes in the background.
func (s *Simplex) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, fmt.Errorf("invalid problem: %w", err)
	}

	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	sf, err := toStandardForm(p)
	if err != nil {
		return Solution{}, err
	}

	x := make([]float64, p.NumVars())
	if len(sf.kept) == 0 {
		return Solution{X: x, Objective: p.Evaluate(x)}, nil
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}

	done := make(chan simplexResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- simplexResult{err: fmt.Errorf("simplex panicked: %v", r)}
			}
		}()
		_, optX, err := lp.Simplex(sf.c, sf.a, sf.b, tol, nil)
		done <- simplexResult{x: optX, err: err}
	}()

	var res simplexResult
	select {
	case <-ctx.Done():
		return Solution{}, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		switch {
		case errors.Is(res.err, lp.ErrInfeasible):
			return Solution{}, ErrInfeasible
		case errors.Is(res.err, lp.ErrUnbounded):
			return Solution{}, ErrUnbounded
		default:
			return Solution{}, fmt.Errorf("simplex failed: %w", res.err)
		}
	}

	for col, idx := range sf.kept {
		v := res.x[col]
		if v < clampEpsilon {
			v = 0
		}
		if p.Upper != nil && v > p.Upper[idx] {
			v = p.Upper[idx]
		}
		x[idx] = v
	}
	return Solution{X: x, Objective: p.Evaluate(x)}, nil
}

func toStandardForm(p Problem) (*standardForm, error) {
	n := p.NumVars()
	sign := 1.0
	if p.Maximize {
		sign = -1
	}

	bounded := func(i int) bool {
		return p.Upper != nil && !math.IsInf(p.Upper[i], 1)
	}

	// Variables that appear in no row cannot be pivoted; pin them at zero
	// unless the objective would push them to infinity.
	var kept []int
	for i := 0; i < n; i++ {
		inRow := bounded(i)
		for _, c := range p.Constraints {
			if c.Coeffs[i] != 0 {
				inRow = true
				break
			}
		}
		if inRow {
			kept = append(kept, i)
			continue
		}
		if sign*p.Objective[i] < 0 {
			return nil, ErrUnbounded
		}
	}

	type row struct {
		coeffs []float64 // over kept columns
		slack  float64   // +1, -1 or 0
		rhs    float64
	}
	var rows []row

	for i, c := range p.Constraints {
		coeffs := make([]float64, len(kept))
		empty := true
		for j, idx := range kept {
			coeffs[j] = c.Coeffs[idx]
			if coeffs[j] != 0 {
				empty = false
			}
		}
		if empty {
			if !trivial(c.Op, c.RHS) {
				return nil, fmt.Errorf("constraint %d: %w", i, ErrInfeasible)
			}
			continue
		}
		r := row{coeffs: coeffs, rhs: c.RHS}
		switch c.Op {
		case LessEq:
			r.slack = 1
		case GreaterEq:
			r.slack = -1
		}
		rows = append(rows, r)
	}

	for j, idx := range kept {
		if !bounded(idx) {
			continue
		}
		coeffs := make([]float64, len(kept))
		coeffs[j] = 1
		rows = append(rows, row{coeffs: coeffs, slack: 1, rhs: p.Upper[idx]})
	}

	slacks := 0
	for _, r := range rows {
		if r.slack != 0 {
			slacks++
		}
	}

	m, cols := len(rows), len(kept)+slacks
	sf := &standardForm{
		c:    make([]float64, cols),
		b:    make([]float64, m),
		kept: kept,
	}
	for j, idx := range kept {
		sf.c[j] = sign * p.Objective[idx]
	}
	if m == 0 {
		return sf, nil
	}

	sf.a = mat.NewDense(m, cols, nil)
	slackCol := len(kept)
	for i, r := range rows {
		// gonum expects b >= 0 for its initial basis search; flipping a row
		// of an equality system keeps it equivalent.
		flip := 1.0
		if r.rhs < 0 {
			flip = -1
		}
		for j, v := range r.coeffs {
			sf.a.Set(i, j, flip*v)
		}
		if r.slack != 0 {
			sf.a.Set(i, slackCol, flip*r.slack)
			slackCol++
		}
		sf.b[i] = flip * r.rhs
	}
	return sf, nil
}

func trivial(op Op, rhs float64) bool {
	switch op {
	case LessEq:
		return rhs >= 0
	case GreaterEq:
		return rhs <= 0
	default:
		return rhs == 0
	}
}
