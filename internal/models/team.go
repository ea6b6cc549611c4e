package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SquadSize is the number of jersey slots in a complete starting side.
const SquadSize = 15

// JerseyPositions maps jersey numbers 1-15 to position categories.
var JerseyPositions = map[int]Position{
	1:  PositionProp,
	2:  PositionHooker,
	3:  PositionProp,
	4:  PositionSecondRow,
	5:  PositionSecondRow,
	6:  PositionBackRow,
	7:  PositionBackRow,
	8:  PositionBackRow,
	9:  PositionScrumHalf,
	10: PositionFlyHalf,
	11: PositionBackThree,
	12: PositionCentre,
	13: PositionCentre,
	14: PositionBackThree,
	15: PositionBackThree,
}

// SlotsByPosition returns the jersey numbers available per position category,
// in ascending order. Callers get a fresh copy they can consume.
func SlotsByPosition() map[Position][]int {
	slots := make(map[Position][]int, len(Positions))
	for jersey, pos := range JerseyPositions {
		slots[pos] = append(slots[pos], jersey)
	}
	for pos := range slots {
		sort.Ints(slots[pos])
	}
	return slots
}

// TeamSlot is one filled jersey in a solved team.
type TeamSlot struct {
	Jersey      int    `json:"jersey"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Captain     bool   `json:"captain"`
}

// TeamSheet is the result of a successful solve. It is only ever produced
// whole; an infeasible program yields an error, not a partial sheet.
type TeamSheet struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	Gameweek      int        `json:"gameweek"`
	Slots         []TeamSlot `json:"slots" gorm:"serializer:json"`
	CaptainID     string     `json:"captain_id"`
	CaptainName   string     `json:"captain_name"`
	SupersubID    string     `json:"supersub_id,omitempty"`
	SupersubName  string     `json:"supersub_name,omitempty"`
	ExpectedScore float64    `json:"expected_score"`
	Budget        float64    `json:"budget"`
	Cost          float64    `json:"cost"`
	SolveTimeMs   int64      `json:"solve_time_ms"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (TeamSheet) TableName() string {
	return "team_sheets"
}

// Render produces the human-readable team sheet.
func (t *TeamSheet) Render() string {
	var b strings.Builder
	b.WriteString("Team Sheet:\n")
	for _, slot := range t.Slots {
		marker := ""
		if slot.Captain {
			marker = " [C]"
		}
		fmt.Fprintf(&b, "%2d: %s%s\n", slot.Jersey, slot.Name, marker)
	}
	if t.SupersubName != "" {
		fmt.Fprintf(&b, "SS: %s\n", t.SupersubName)
	}
	fmt.Fprintf(&b, "\nExpected score: %.2f\n", t.ExpectedScore)
	fmt.Fprintf(&b, "Budget:         %.2f\n", t.Budget)
	fmt.Fprintf(&b, "Team Cost:      %.2f\n", t.Cost)
	return b.String()
}
