package models

import (
	"fmt"
)

// Availability describes what we know about a player's involvement in the
// upcoming round, using the wire values the upstream fantasy API reports.
type Availability string

const (
	AvailabilityStarted    Availability = "started"
	AvailabilityOnAsSub    Availability = "on-as-sub"
	AvailabilityDidNotPlay Availability = "did-not-play"
	AvailabilityUndefined  Availability = "undefined"
)

// ParseAvailability validates an availability string from input data.
// Anything outside the four known values is a data error, never a default.
func ParseAvailability(s string) (Availability, error) {
	switch Availability(s) {
	case AvailabilityStarted, AvailabilityOnAsSub, AvailabilityDidNotPlay, AvailabilityUndefined:
		return Availability(s), nil
	}
	return "", fmt.Errorf("unknown availability %q", s)
}

// CanStart reports whether the player is eligible for a starting jersey.
func (a Availability) CanStart() bool {
	return a == AvailabilityStarted || a == AvailabilityUndefined
}

// CanSub reports whether the player is eligible for the supersub slot.
func (a Availability) CanSub() bool {
	return a == AvailabilityOnAsSub || a == AvailabilityUndefined
}

// Position is a rugby union position category.
type Position string

const (
	PositionProp      Position = "prop"
	PositionHooker    Position = "hooker"
	PositionSecondRow Position = "second-row"
	PositionBackRow   Position = "back-row"
	PositionScrumHalf Position = "scrum-half"
	PositionFlyHalf   Position = "fly-half"
	PositionCentre    Position = "centre"
	PositionBackThree Position = "back-three"
)

// Positions lists every valid position category.
var Positions = []Position{
	PositionProp,
	PositionHooker,
	PositionSecondRow,
	PositionBackRow,
	PositionScrumHalf,
	PositionFlyHalf,
	PositionCentre,
	PositionBackThree,
}

func ParsePosition(s string) (Position, error) {
	for _, p := range Positions {
		if Position(s) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// Candidate is a selectable player. ID is the stable identity; names can
// collide across candidates and are only a display convenience.
type Candidate struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Country      string       `json:"country"`
	Position     Position     `json:"position"`
	Points       float64      `json:"points"`
	Cost         float64      `json:"cost"`
	Adjust       float64      `json:"adjust,omitempty"`
	Availability Availability `json:"availability"`
	Note         string       `json:"note,omitempty"`
}

// Validate checks the candidate against the ingestion rules. Projections may
// be negative (penalty-heavy players); costs may not.
func (c *Candidate) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("candidate %q: missing id", c.Name)
	}
	if c.Country == "" {
		return fmt.Errorf("candidate %s: missing country", c.ID)
	}
	if _, err := ParsePosition(string(c.Position)); err != nil {
		return fmt.Errorf("candidate %s: %w", c.ID, err)
	}
	if _, err := ParseAvailability(string(c.Availability)); err != nil {
		return fmt.Errorf("candidate %s: %w", c.ID, err)
	}
	if c.Cost < 0 {
		return fmt.Errorf("candidate %s: negative cost %.2f", c.ID, c.Cost)
	}
	return nil
}

// BasePoints is the projection with its manual adjustment applied, before
// country weighting.
func (c *Candidate) BasePoints() float64 {
	return c.Points + c.Adjust
}
