// Package solver assembles binary integer programs and hands them to the
// external lp_solve backend.
package solver

// Var identifies a decision variable column in a Program.
type Var int

// fixedZero marks a term that is a constant zero rather than a
// solver-controlled variable.
const fixedZero Var = -1

// Term is one coefficient in a linear expression. A term is either backed by
// a real decision variable or is a fixed zero; summation code treats both
// uniformly and never needs to branch on which it is.
type Term struct {
	Var  Var
	Coef float64
}

// FixedZero returns a constant-zero term for an ineligible variable slot.
func FixedZero() Term {
	return Term{Var: fixedZero}
}

// IsFixed reports whether the term is a constant zero.
func (t Term) IsFixed() bool {
	return t.Var == fixedZero
}

// Expr is a linear expression over decision variables.
type Expr struct {
	terms []Term
}

// Add appends a term; fixed-zero terms contribute nothing and are dropped.
func (e *Expr) Add(t Term) *Expr {
	if !t.IsFixed() && t.Coef != 0 {
		e.terms = append(e.terms, t)
	}
	return e
}

// AddVar appends coef*v.
func (e *Expr) AddVar(v Var, coef float64) *Expr {
	return e.Add(Term{Var: v, Coef: coef})
}

// Empty reports whether the expression has no variable terms left.
func (e *Expr) Empty() bool {
	return len(e.terms) == 0
}

// Op is a linear constraint relation.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

type constraint struct {
	name string
	expr Expr
	op   Op
	rhs  float64
}

// Program is a maximization problem over binary decision variables.
// It carries no state across solves; build a fresh one per solve.
type Program struct {
	names       []string
	objective   []float64
	constraints []constraint
}

func NewProgram() *Program {
	return &Program{}
}

// AddBinary declares a new 0/1 decision variable and returns a term for it
// with coefficient 1.
func (p *Program) AddBinary(name string) Term {
	v := Var(len(p.names))
	p.names = append(p.names, name)
	p.objective = append(p.objective, 0)
	return Term{Var: v, Coef: 1}
}

// SetObjective adds coef to the objective coefficient of a term's variable.
// Fixed-zero terms are ignored.
func (p *Program) SetObjective(t Term, coef float64) {
	if t.IsFixed() {
		return
	}
	p.objective[t.Var] += coef
}

// AddConstraint records expr op rhs. Constraints whose expression has no
// variable terms are kept only if they are trivially satisfiable; an
// unsatisfiable empty constraint (e.g. 0 == 1 from pinning an ineligible
// variable) renders the program infeasible at solve time.
func (p *Program) AddConstraint(name string, expr Expr, op Op, rhs float64) {
	p.constraints = append(p.constraints, constraint{name: name, expr: expr, op: op, rhs: rhs})
}

// NumVars returns the number of declared decision variables.
func (p *Program) NumVars() int {
	return len(p.names)
}

// NumConstraints returns the number of recorded constraints.
func (p *Program) NumConstraints() int {
	return len(p.constraints)
}

// Status is the outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

// Solution carries the solver's verdict and, when optimal, the variable
// assignment and objective value.
type Solution struct {
	Status    Status
	Objective float64
	values    []float64
}

// Value returns the solved value of a term's variable; fixed-zero terms are
// always 0.
func (s *Solution) Value(t Term) float64 {
	if t.IsFixed() || s.values == nil {
		return 0
	}
	return s.values[t.Var]
}

// Set reports whether a binary term solved to 1.
func (s *Solution) Set(t Term) bool {
	return s.Value(t) > 0.5
}

func emptyConstraintHolds(op Op, rhs float64) bool {
	switch op {
	case LE:
		return rhs >= 0
	case GE:
		return rhs <= 0
	case EQ:
		return rhs == 0
	}
	return false
}
