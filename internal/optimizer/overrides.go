package optimizer

import (
	"errors"
	"fmt"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/solver"
)

// ErrIneligibleOverride marks an override on a candidate the model holds no
// variables for, such as pinning a did-not-play candidate.
var ErrIneligibleOverride = errors.New("override targets an ineligible candidate")

// resolve maps an id or unique display name to the candidate's variables.
func (m *Model) resolve(idOrName string) (*candidateVars, error) {
	entry, err := m.reg.Resolve(idOrName)
	if err != nil {
		return nil, err
	}
	return m.vars[entry.ID], nil
}

func (m *Model) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	m.warnings = append(m.warnings, msg)
	m.log.Warn(msg)
}

// PinSelect forces a candidate into or out of the starting side. Pinning out
// also clears the candidate's captain and supersub variables. A candidate
// with no starter variable at all cannot be pinned in: did-not-play is a hard
// error, bench-only a non-fatal warning.
func (m *Model) PinSelect(idOrName string, keep bool) error {
	cv, err := m.resolve(idOrName)
	if err != nil {
		return err
	}
	if keep {
		if cv.selected.IsFixed() {
			if cv.entry.Availability == models.AvailabilityDidNotPlay {
				return fmt.Errorf("%w: %s did not play", ErrIneligibleOverride, cv.entry.ID)
			}
			m.warnf("Cannot pin %s into the starting side: availability is %s", cv.entry.ID, cv.entry.Availability)
			return nil
		}
		m.pin(fmt.Sprintf("pin-select[%s]", cv.entry.ID), cv.selected, 1)
		return nil
	}
	m.pin(fmt.Sprintf("pin-drop[%s]", cv.entry.ID), cv.selected, 0)
	m.pin(fmt.Sprintf("pin-drop-captain[%s]", cv.entry.ID), cv.captain, 0)
	m.pin(fmt.Sprintf("pin-drop-supersub[%s]", cv.entry.ID), cv.supersub, 0)
	return nil
}

// PinCaptain forces the captaincy onto one candidate by zeroing every other
// captain variable. Captaincy requires starter eligibility; did-not-play and
// bench-only candidates are rejected outright.
func (m *Model) PinCaptain(idOrName string) error {
	cv, err := m.resolve(idOrName)
	if err != nil {
		return err
	}
	if cv.captain.IsFixed() {
		return fmt.Errorf("%w: %s cannot captain with availability %s",
			ErrIneligibleOverride, cv.entry.ID, cv.entry.Availability)
	}
	m.pin(fmt.Sprintf("pin-captain[%s]", cv.entry.ID), cv.captain, 1)
	for _, id := range m.order {
		other := m.vars[id]
		if id != cv.entry.ID && !other.captain.IsFixed() {
			m.pin(fmt.Sprintf("pin-captain-not[%s]", id), other.captain, 0)
		}
	}
	return nil
}

// PinSupersub forces the supersub role onto one candidate. A starter-only
// candidate conflicts with known availability; that is a warning and the pin
// becomes a no-op rather than an error.
func (m *Model) PinSupersub(idOrName string) error {
	cv, err := m.resolve(idOrName)
	if err != nil {
		return err
	}
	if cv.supersub.IsFixed() {
		if cv.entry.Availability == models.AvailabilityDidNotPlay {
			return fmt.Errorf("%w: %s did not play", ErrIneligibleOverride, cv.entry.ID)
		}
		m.warnf("Cannot pin %s as supersub: availability is %s", cv.entry.ID, cv.entry.Availability)
		return nil
	}
	m.pin(fmt.Sprintf("pin-supersub[%s]", cv.entry.ID), cv.supersub, 1)
	for _, id := range m.order {
		other := m.vars[id]
		if id != cv.entry.ID && !other.supersub.IsFixed() {
			m.pin(fmt.Sprintf("pin-supersub-not[%s]", id), other.supersub, 0)
		}
	}
	return nil
}

func (m *Model) pin(name string, t solver.Term, value float64) {
	if t.IsFixed() {
		return
	}
	var expr solver.Expr
	expr.Add(t)
	m.prog.AddConstraint(name, expr, solver.EQ, value)
}
