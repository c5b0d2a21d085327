// Package solver defines the narrow linear-programming interface used by the
// meal generator and a simplex implementation backed by gonum.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Op is the relation of a constraint row to its right-hand side.
type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

func (o Op) String() string {
	switch o {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Constraint is a single linear row: Coeffs · x  Op  RHS.
type Constraint struct {
	Coeffs []float64
	Op     Op
	RHS    float64
}

// Problem is a linear program over non-negative continuous variables.
// Upper, when set, holds a per-variable upper bound; +Inf means unbounded.
type Problem struct {
	Objective   []float64
	Maximize    bool
	Constraints []Constraint
	Upper       []float64
}

// Solution holds the variable assignment and the objective value it reaches.
type Solution struct {
	X         []float64
	Objective float64
}

// Solver solves linear programs.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Solution, error)
}

var (
	// ErrInfeasible is returned when no assignment satisfies every constraint.
	ErrInfeasible = errors.New("linear program is infeasible")
	// ErrUnbounded is returned when the objective can grow without limit.
	ErrUnbounded = errors.New("linear program is unbounded")
)

// NumVars returns the number of decision variables.
func (p Problem) NumVars() int {
	return len(p.Objective)
}

// Validate checks dimensions and that every coefficient is finite.
func (p Problem) Validate() error {
	n := p.NumVars()
	if n == 0 {
		return errors.New("problem has no variables")
	}
	if err := finite("objective", p.Objective); err != nil {
		return err
	}
	for i, c := range p.Constraints {
		if len(c.Coeffs) != n {
			return fmt.Errorf("constraint %d: expected %d coefficients, got %d", i, n, len(c.Coeffs))
		}
		if err := finite(fmt.Sprintf("constraint %d", i), c.Coeffs); err != nil {
			return err
		}
		if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return fmt.Errorf("constraint %d: right-hand side is not finite", i)
		}
		if c.Op < LessEq || c.Op > Equal {
			return fmt.Errorf("constraint %d: unknown relation %d", i, c.Op)
		}
	}
	if p.Upper != nil {
		if len(p.Upper) != n {
			return fmt.Errorf("expected %d upper bounds, got %d", n, len(p.Upper))
		}
		for i, u := range p.Upper {
			if math.IsNaN(u) || u < 0 {
				return fmt.Errorf("variable %d: invalid upper bound %v", i, u)
			}
		}
	}
	return nil
}

// Evaluate returns the objective value of x.
func (p Problem) Evaluate(x []float64) float64 {
	var v float64
	for i, c := range p.Objective {
		v += c * x[i]
	}
	return v
}

// satisfied reports whether x meets every constraint and bound within tol.
func (p Problem) satisfied(x []float64, tol float64) bool {
	for i, v := range x {
		if v < -tol {
			return false
		}
		if p.Upper != nil && v > p.Upper[i]+tol {
			return false
		}
	}
	for _, c := range p.Constraints {
		var lhs float64
		for i, a := range c.Coeffs {
			lhs += a * x[i]
		}
		switch c.Op {
		case LessEq:
			if lhs > c.RHS+tol {
				return false
			}
		case GreaterEq:
			if lhs < c.RHS-tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		}
	}
	return true
}

func finite(what string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: coefficient %d is not finite", what, i)
		}
	}
	return nil
}
