// Package optimizer encodes roster selection as a binary integer program:
// one selection, captaincy and supersub variable per eligible candidate, the
// business-rule constraint set, and a weighted-projection objective.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/roster"
	"github.com/jstittsworth/rugby-optimizer/internal/solver"
)

var (
	// ErrInfeasible means the constraint set admits no team at all. The
	// caller has to relax constraints; there is no partial answer.
	ErrInfeasible = errors.New("no feasible team under these constraints")
	// ErrScoreMismatch means the recomputed score disagrees with the
	// solver's objective value, which indicates a modeling bug.
	ErrScoreMismatch = errors.New("recomputed score disagrees with solver objective")
)

const scoreTolerance = 1e-6

// Config carries the business rules applied on top of the dataset.
type Config struct {
	// MaxPerCountry caps starters plus supersub from any single country.
	MaxPerCountry int
	// CaptainMultiplier scales the captain's contribution. The objective
	// carries it as an incremental (multiplier - 1) term on top of the
	// base selection reward.
	CaptainMultiplier float64
	// SupersubMultiplier applies to a bench player used as supersub.
	SupersubMultiplier float64
	// SupersubStarterMultiplier applies to an undefined-availability player
	// pressed into supersub duty, reflecting reduced expected bench minutes.
	SupersubStarterMultiplier float64
	// SolveTimeout bounds the lp_solve run; a timeout is a solver error.
	SolveTimeout time.Duration
}

// DefaultConfig mirrors the Six Nations fantasy rules: four players per
// country, captains score double, bench supersubs score triple.
func DefaultConfig() Config {
	return Config{
		MaxPerCountry:             4,
		CaptainMultiplier:         2,
		SupersubMultiplier:        3,
		SupersubStarterMultiplier: 2,
		SolveTimeout:              solver.DefaultTimeout,
	}
}

// candidateVars holds the per-candidate decision terms. Ineligible roles are
// fixed-zero terms, so sums over all candidates need no eligibility checks.
type candidateVars struct {
	entry    *roster.Entry
	selected solver.Term
	captain  solver.Term
	supersub solver.Term
}

// Model is a single-solve assembly of variables, constraints and objective.
// Decision variables are created fresh per Model and discarded with it.
type Model struct {
	reg      *roster.Registry
	cfg      Config
	log      *logrus.Logger
	prog     *solver.Program
	vars     map[string]*candidateVars
	order    []string
	warnings []string
}

// New builds the full program for a registry: decision variables for every
// eligible candidate, the constraint set, and the objective. Overrides may be
// pinned on the returned model before calling Solve.
func New(reg *roster.Registry, cfg Config, log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Model{
		reg:  reg,
		cfg:  cfg,
		log:  log,
		prog: solver.NewProgram(),
		vars: make(map[string]*candidateVars),
	}
	m.defineVariables()
	m.defineObjective()
	m.constrainBudget()
	m.constrainPositions()
	m.constrainCountries()
	m.constrainCaptaincy()
	m.constrainSupersub()
	m.constrainExclusivity()
	return m
}

// Warnings lists non-fatal override conflicts recorded so far.
func (m *Model) Warnings() []string {
	return m.warnings
}

// defineVariables creates the per-candidate binaries. Candidates who cannot
// fill a role get a fixed-zero term for it; did-not-play candidates get no
// variables at all, which keeps them out of the program entirely.
func (m *Model) defineVariables() {
	for _, entry := range m.reg.Candidates() {
		cv := &candidateVars{
			entry:    entry,
			selected: solver.FixedZero(),
			captain:  solver.FixedZero(),
			supersub: solver.FixedZero(),
		}
		if entry.Availability.CanStart() {
			cv.selected = m.prog.AddBinary(fmt.Sprintf("select[%s]", entry.ID))
			cv.captain = m.prog.AddBinary(fmt.Sprintf("captain[%s]", entry.ID))
		}
		if entry.Availability.CanSub() {
			cv.supersub = m.prog.AddBinary(fmt.Sprintf("supersub[%s]", entry.ID))
		}
		m.vars[entry.ID] = cv
		m.order = append(m.order, entry.ID)
	}
}

// supersubMultiplier is conditional on availability: genuine bench players
// earn the full bench boost, undefined-availability players a reduced one.
func (m *Model) supersubMultiplier(entry *roster.Entry) float64 {
	if entry.Availability == models.AvailabilityOnAsSub {
		return m.cfg.SupersubMultiplier
	}
	return m.cfg.SupersubStarterMultiplier
}

// defineObjective maximizes total weighted projection. Captaincy contributes
// an incremental (multiplier - 1) term on top of the base selection reward,
// which keeps the program linear without a product of two binaries.
func (m *Model) defineObjective() {
	for _, id := range m.order {
		cv := m.vars[id]
		m.prog.SetObjective(cv.selected, cv.entry.Weighted)
		m.prog.SetObjective(cv.captain, (m.cfg.CaptainMultiplier-1)*cv.entry.Weighted)
		m.prog.SetObjective(cv.supersub, m.supersubMultiplier(cv.entry)*cv.entry.Weighted)
	}
}

// constrainBudget keeps selected starters plus the supersub within budget.
func (m *Model) constrainBudget() {
	var expr solver.Expr
	for _, id := range m.order {
		cv := m.vars[id]
		expr.AddVar(cv.selected.Var, cv.entry.Cost)
		expr.AddVar(cv.supersub.Var, cv.entry.Cost)
	}
	m.prog.AddConstraint("budget", expr, solver.LE, m.reg.Budget())
}

// constrainPositions bounds starters per position category by the jersey
// slots available, and pins the total selected to the full squad size so a
// partially filled side is infeasible rather than quietly suboptimal.
func (m *Model) constrainPositions() {
	slots := models.SlotsByPosition()
	for _, pos := range models.Positions {
		var expr solver.Expr
		for _, entry := range m.reg.ByPosition(pos) {
			expr.Add(m.vars[entry.ID].selected)
		}
		m.prog.AddConstraint(fmt.Sprintf("slots[%s]", pos), expr, solver.LE, float64(len(slots[pos])))
	}

	var total solver.Expr
	for _, id := range m.order {
		total.Add(m.vars[id].selected)
	}
	m.prog.AddConstraint("squad-size", total, solver.EQ, models.SquadSize)
}

// constrainCountries caps starters plus supersub per country.
func (m *Model) constrainCountries() {
	for _, country := range m.reg.Countries() {
		var expr solver.Expr
		for _, entry := range m.reg.ByCountry(country) {
			cv := m.vars[entry.ID]
			expr.Add(cv.selected)
			expr.Add(cv.supersub)
		}
		m.prog.AddConstraint(fmt.Sprintf("country[%s]", country), expr, solver.LE, float64(m.cfg.MaxPerCountry))
	}
}

// constrainCaptaincy requires exactly one captain, drawn from the selected
// side. The captain-implies-selected coupling is a hard constraint here, not
// left to objective pressure, so a degenerate all-zero-points pool can never
// produce a captain outside the team.
func (m *Model) constrainCaptaincy() {
	var count solver.Expr
	for _, id := range m.order {
		cv := m.vars[id]
		count.Add(cv.captain)
		if !cv.captain.IsFixed() {
			var implies solver.Expr
			implies.Add(cv.captain)
			implies.AddVar(cv.selected.Var, -1)
			m.prog.AddConstraint(fmt.Sprintf("captain-selected[%s]", id), implies, solver.LE, 0)
		}
	}
	m.prog.AddConstraint("one-captain", count, solver.EQ, 1)
}

// constrainSupersub allows at most one supersub.
func (m *Model) constrainSupersub() {
	var count solver.Expr
	for _, id := range m.order {
		count.Add(m.vars[id].supersub)
	}
	m.prog.AddConstraint("one-supersub", count, solver.LE, 1)
}

// constrainExclusivity stops undefined-availability candidates, who hold both
// a selection and a supersub variable, from filling both roles at once.
func (m *Model) constrainExclusivity() {
	for _, id := range m.order {
		cv := m.vars[id]
		if cv.selected.IsFixed() || cv.supersub.IsFixed() {
			continue
		}
		var expr solver.Expr
		expr.Add(cv.selected)
		expr.Add(cv.supersub)
		m.prog.AddConstraint(fmt.Sprintf("start-or-bench[%s]", id), expr, solver.LE, 1)
	}
}

// Solve runs the assembled program and interprets the assignment back into a
// team sheet. Infeasibility is returned as ErrInfeasible; solver failures and
// timeouts are surfaced as-is, with no retry.
func (m *Model) Solve(ctx context.Context) (*models.TeamSheet, error) {
	timeout := m.cfg.SolveTimeout
	if timeout <= 0 {
		timeout = solver.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	sol, err := solver.Solve(ctx, m.prog)
	if err != nil {
		return nil, fmt.Errorf("solver failed: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"status":      sol.Status.String(),
		"variables":   m.prog.NumVars(),
		"constraints": m.prog.NumConstraints(),
		"elapsed":     time.Since(start).String(),
	}).Debug("Solve finished")

	return m.interpret(sol, time.Since(start))
}
