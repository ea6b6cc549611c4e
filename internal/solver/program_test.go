package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedZeroTermsAreInert(t *testing.T) {
	p := NewProgram()
	x := p.AddBinary("x")

	var expr Expr
	expr.Add(x)
	expr.Add(FixedZero())
	expr.AddVar(FixedZero().Var, 3)
	assert.Len(t, expr.terms, 1)

	p.SetObjective(FixedZero(), 10)
	assert.Equal(t, 1, p.NumVars())
	assert.Equal(t, []float64{0}, p.objective)
}

func TestObjectiveAccumulates(t *testing.T) {
	p := NewProgram()
	x := p.AddBinary("x")
	p.SetObjective(x, 2)
	p.SetObjective(x, 3)
	assert.Equal(t, []float64{5}, p.objective)
}

func TestEmptyConstraintFeasibility(t *testing.T) {
	assert.True(t, emptyConstraintHolds(LE, 1))
	assert.True(t, emptyConstraintHolds(LE, 0))
	assert.False(t, emptyConstraintHolds(LE, -1))
	assert.True(t, emptyConstraintHolds(GE, -1))
	assert.False(t, emptyConstraintHolds(GE, 1))
	assert.True(t, emptyConstraintHolds(EQ, 0))
	assert.False(t, emptyConstraintHolds(EQ, 1))
}

func TestUnsatisfiableEmptyConstraintIsInfeasible(t *testing.T) {
	p := NewProgram()
	x := p.AddBinary("x")
	var expr Expr
	expr.Add(x)
	p.AddConstraint("keep", expr, LE, 1)

	// Pinning an ineligible (fixed-zero) variable to 1 leaves an empty
	// equality with rhs 1, which can never hold.
	var pin Expr
	pin.Add(FixedZero())
	p.AddConstraint("impossible-pin", pin, EQ, 1)

	sol, err := Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolveSmallKnapsack(t *testing.T) {
	// maximize 6a + 5b + 4c subject to 2a + 2b + 1c <= 3: best is a + c.
	p := NewProgram()
	a := p.AddBinary("a")
	b := p.AddBinary("b")
	c := p.AddBinary("c")
	p.SetObjective(a, 6)
	p.SetObjective(b, 5)
	p.SetObjective(c, 4)

	var load Expr
	load.AddVar(a.Var, 2)
	load.AddVar(b.Var, 2)
	load.AddVar(c.Var, 1)
	p.AddConstraint("capacity", load, LE, 3)

	sol, err := Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 10.0, sol.Objective, 1e-6)
	assert.True(t, sol.Set(a))
	assert.False(t, sol.Set(b))
	assert.True(t, sol.Set(c))
}

func TestSolveInfeasibleProgram(t *testing.T) {
	p := NewProgram()
	x := p.AddBinary("x")
	var expr Expr
	expr.Add(x)
	p.AddConstraint("too-big", expr, EQ, 2)

	sol, err := Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestFixedZeroValueIsZero(t *testing.T) {
	sol := &Solution{Status: StatusOptimal, values: []float64{1}}
	assert.Equal(t, 0.0, sol.Value(FixedZero()))
	assert.False(t, sol.Set(FixedZero()))
}
