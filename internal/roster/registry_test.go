package roster

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func testDataset() *models.Dataset {
	return &models.Dataset{
		Budget:         150,
		CountryWeights: map[string]float64{"IRE": 1.5, "ITA": 0.5},
		Players: map[string]models.Candidate{
			"10": {Name: "James Lowe", Country: "IRE", Position: models.PositionBackThree, Points: 20, Adjust: 2, Cost: 25, Availability: models.AvailabilityStarted},
			"11": {Name: "Ange Capuozzo", Country: "ITA", Position: models.PositionBackThree, Points: 30, Cost: 20, Availability: models.AvailabilityStarted},
			"12": {Name: "Tom Curry", Country: "ENG", Position: models.PositionBackRow, Points: 14, Cost: 18, Availability: models.AvailabilityOnAsSub},
		},
	}
}

func TestWeightedProjection(t *testing.T) {
	reg, err := New(testDataset(), testLogger())
	require.NoError(t, err)

	lowe, ok := reg.Get("10")
	require.True(t, ok)
	assert.InDelta(t, (20+2)*1.5, lowe.Weighted, 1e-9)

	capuozzo, _ := reg.Get("11")
	assert.InDelta(t, 30*0.5, capuozzo.Weighted, 1e-9)

	// No configured weight for England: defaults to 1.
	curry, _ := reg.Get("12")
	assert.InDelta(t, 14.0, curry.Weighted, 1e-9)
}

func TestResolvePrefersID(t *testing.T) {
	ds := testDataset()
	// A candidate whose display name collides with another's id.
	player := ds.Players["11"]
	player.Name = "10"
	ds.Players["11"] = player

	reg, err := New(ds, testLogger())
	require.NoError(t, err)

	entry, err := reg.Resolve("10")
	require.NoError(t, err)
	assert.Equal(t, "James Lowe", entry.Name)
}

func TestResolveByUniqueName(t *testing.T) {
	reg, err := New(testDataset(), testLogger())
	require.NoError(t, err)

	entry, err := reg.Resolve("Tom Curry")
	require.NoError(t, err)
	assert.Equal(t, "12", entry.ID)
}

func TestResolveAmbiguousNameFails(t *testing.T) {
	ds := testDataset()
	player := ds.Players["11"]
	player.Name = "James Lowe"
	ds.Players["11"] = player

	reg, err := New(ds, testLogger())
	require.NoError(t, err)

	_, err = reg.Resolve("James Lowe")
	assert.ErrorIs(t, err, ErrAmbiguousName)

	// The two colliding candidates stay distinct under their ids.
	first, ok := reg.Get("10")
	require.True(t, ok)
	second, ok := reg.Get("11")
	require.True(t, ok)
	assert.NotEqual(t, first.Country, second.Country)
}

func TestResolveUnknown(t *testing.T) {
	reg, err := New(testDataset(), testLogger())
	require.NoError(t, err)

	_, err = reg.Resolve("nobody")
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestGroupedViews(t *testing.T) {
	ds := testDataset()
	ds.Supersub = &models.Candidate{ID: "99", Name: "Bench", Country: "IRE", Position: models.PositionBackRow, Points: 5, Cost: 10}

	reg, err := New(ds, testLogger())
	require.NoError(t, err)

	assert.Len(t, reg.ByPosition(models.PositionBackThree), 2)
	assert.Len(t, reg.ByCountry("IRE"), 2)
	assert.Equal(t, []string{"ENG", "IRE", "ITA"}, reg.Countries())
	assert.Len(t, reg.Candidates(), 4)
}

func TestCandidatesStableOrder(t *testing.T) {
	reg, err := New(testDataset(), testLogger())
	require.NoError(t, err)

	var ids []string
	for _, entry := range reg.Candidates() {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []string{"10", "11", "12"}, ids)
}
