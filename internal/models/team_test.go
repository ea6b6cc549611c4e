package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJerseyMapCoversFullSquad(t *testing.T) {
	assert.Len(t, JerseyPositions, SquadSize)

	slots := SlotsByPosition()
	total := 0
	for _, numbers := range slots {
		total += len(numbers)
	}
	assert.Equal(t, SquadSize, total)

	assert.Equal(t, []int{1, 3}, slots[PositionProp])
	assert.Equal(t, []int{2}, slots[PositionHooker])
	assert.Equal(t, []int{6, 7, 8}, slots[PositionBackRow])
	assert.Equal(t, []int{11, 14, 15}, slots[PositionBackThree])
}

func TestSlotsByPositionReturnsFreshCopy(t *testing.T) {
	first := SlotsByPosition()
	first[PositionProp] = nil
	second := SlotsByPosition()
	assert.Equal(t, []int{1, 3}, second[PositionProp])
}

func TestTeamSheetRender(t *testing.T) {
	sheet := &TeamSheet{
		Slots: []TeamSlot{
			{Jersey: 1, CandidateID: "a", Name: "Andrew Porter"},
			{Jersey: 2, CandidateID: "b", Name: "Dan Sheehan", Captain: true},
		},
		CaptainID:     "b",
		SupersubName:  "Jack Willis",
		ExpectedScore: 123.456,
		Budget:        200,
		Cost:          199.5,
	}

	out := sheet.Render()
	assert.Contains(t, out, " 1: Andrew Porter\n")
	assert.Contains(t, out, " 2: Dan Sheehan [C]\n")
	assert.Contains(t, out, "SS: Jack Willis\n")
	assert.Contains(t, out, "Expected score: 123.46")
	assert.Contains(t, out, "Budget:         200.00")
	assert.Contains(t, out, "Team Cost:      199.50")
	assert.True(t, strings.HasPrefix(out, "Team Sheet:\n"))
}
