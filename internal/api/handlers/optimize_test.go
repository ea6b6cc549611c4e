package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
	"github.com/jstittsworth/rugby-optimizer/pkg/utils"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		MaxPerCountry:             4,
		CaptainMultiplier:         2,
		SupersubMultiplier:        3,
		SupersubStarterMultiplier: 2,
		SolverTimeout:             30 * time.Second,
	}
}

// squadDataset returns a pool with exactly one candidate per jersey slot.
func squadDataset(budget float64) *models.Dataset {
	countries := []string{"ENG", "FRA", "IRL", "ITA", "SCO", "WAL"}
	positions := []models.Position{
		models.PositionProp, models.PositionProp,
		models.PositionHooker,
		models.PositionSecondRow, models.PositionSecondRow,
		models.PositionBackRow, models.PositionBackRow, models.PositionBackRow,
		models.PositionScrumHalf,
		models.PositionFlyHalf,
		models.PositionBackThree, models.PositionBackThree, models.PositionBackThree,
		models.PositionCentre, models.PositionCentre,
	}
	players := make(map[string]models.Candidate, len(positions))
	for i, pos := range positions {
		id := "p" + string(rune('a'+i))
		players[id] = models.Candidate{
			Name:         "Player " + string(rune('A'+i)),
			Country:      countries[i%len(countries)],
			Position:     pos,
			Points:       float64(10 + i),
			Cost:         10,
			Availability: models.AvailabilityStarted,
		}
	}
	return &models.Dataset{Gameweek: 1, Budget: budget, Players: players}
}

func newOptimizeRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := services.NewStore(nil, t.TempDir(), testLogger())
	handler := NewOptimizeHandler(store, nil, testConfig(), testLogger())
	router := gin.New()
	router.POST("/api/v1/optimize", handler.Optimize)
	return router
}

func postOptimize(t *testing.T, router *gin.Engine, req OptimizeRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.AppError `json:"error"`
}

func TestOptimizeInlineDataset(t *testing.T) {
	router := newOptimizeRouter(t)
	w := postOptimize(t, router, OptimizeRequest{Dataset: squadDataset(200)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)

	var resp OptimizeResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotNil(t, resp.Team)
	assert.Len(t, resp.Team.Slots, models.SquadSize)
	assert.NotEmpty(t, resp.Team.CaptainID)
	assert.InDelta(t, 150.0, resp.Team.Cost, 1e-6)
	assert.Contains(t, resp.Sheet, "Expected score:")
}

func TestOptimizeInfeasibleBudget(t *testing.T) {
	router := newOptimizeRouter(t)
	w := postOptimize(t, router, OptimizeRequest{Dataset: squadDataset(50)})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeInfeasible, env.Error.Code)
}

func TestOptimizeUnknownOverride(t *testing.T) {
	router := newOptimizeRouter(t)
	w := postOptimize(t, router, OptimizeRequest{
		Dataset: squadDataset(200),
		Captain: "nobody",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeModeling, env.Error.Code)
}

func TestOptimizeNoDatasetConfigured(t *testing.T) {
	router := newOptimizeRouter(t)
	w := postOptimize(t, router, OptimizeRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeValidation, env.Error.Code)
}
