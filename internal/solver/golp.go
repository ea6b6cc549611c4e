package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/draffensperger/golp"
)

// DefaultTimeout bounds a single solve. Programs here are tens to low
// hundreds of binary variables and normally finish in well under a second.
const DefaultTimeout = 30 * time.Second

var opMap = map[Op]golp.ConstraintType{
	LE: golp.LE,
	GE: golp.GE,
	EQ: golp.EQ,
}

// Solve lowers the program into lp_solve and runs it once. The discriminated
// outcome is: (Solution with StatusOptimal, nil), (Solution with
// StatusInfeasible, nil), or (nil, error) for backend failures and timeouts.
// A failed solve is terminal; there are no retries.
func Solve(ctx context.Context, p *Program) (*Solution, error) {
	// Empty constraints never reach lp_solve; an unsatisfiable one decides
	// the program on its own.
	for _, c := range p.constraints {
		if c.expr.Empty() && !emptyConstraintHolds(c.op, c.rhs) {
			return &Solution{Status: StatusInfeasible}, nil
		}
	}

	lp := golp.NewLP(0, p.NumVars())
	lp.SetVerboseLevel(golp.NEUTRAL)
	for i, name := range p.names {
		lp.SetColName(i, name)
		lp.SetInt(i, true)
		if err := lp.AddConstraintSparse([]golp.Entry{{Col: i, Val: 1}}, golp.LE, 1); err != nil {
			return nil, fmt.Errorf("failed to bound variable %s: %w", name, err)
		}
	}
	for _, c := range p.constraints {
		if c.expr.Empty() {
			continue
		}
		row := make([]golp.Entry, 0, len(c.expr.terms))
		coefs := make(map[Var]float64, len(c.expr.terms))
		for _, t := range c.expr.terms {
			coefs[t.Var] += t.Coef
		}
		for v, coef := range coefs {
			row = append(row, golp.Entry{Col: int(v), Val: coef})
		}
		if err := lp.AddConstraintSparse(row, opMap[c.op], c.rhs); err != nil {
			return nil, fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	lp.SetObjFn(p.objective)
	lp.SetMaximize()

	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("solver timed out before starting")
	}

	type verdict struct {
		status    golp.SolutionType
		objective float64
		values    []float64
	}
	done := make(chan verdict, 1)
	go func() {
		status := lp.Solve()
		done <- verdict{status: status, objective: lp.Objective(), values: lp.Variables()}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("solver aborted: %w", ctx.Err())
	case <-time.After(timeout):
		return nil, fmt.Errorf("solver timed out after %s", timeout)
	case v := <-done:
		switch v.status {
		case golp.OPTIMAL:
			return &Solution{
				Status:    StatusOptimal,
				Objective: v.objective,
				values:    v.values,
			}, nil
		case golp.INFEASIBLE:
			return &Solution{Status: StatusInfeasible}, nil
		default:
			return nil, fmt.Errorf("solver returned status %d", v.status)
		}
	}
}
