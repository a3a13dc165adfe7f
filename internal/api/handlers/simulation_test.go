package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/gpp-sim/internal/engine"
	"github.com/stitts-dev/gpp-sim/internal/websocket"
	"github.com/stitts-dev/gpp-sim/pkg/config"
	"github.com/stitts-dev/gpp-sim/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultSimulations:  2000,
		MaxSimulations:      100000,
		SimulationChunkSize: 1000,
		DefaultSeed:         42,
		BoomThreshold:       1.5,
		FloorPercentile:     10,
		CeilingPercentile:   90,
		MaxStoredRuns:       10,
	}
}

func testRouter(t *testing.T) (*gin.Engine, *SimulationHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	handler := NewSimulationHandler(testConfig(), websocket.NewHub(logger), NewResultStore(10), logger)

	r := gin.New()
	r.POST("/simulate", handler.RunSimulation)
	r.GET("/simulations/:id", handler.GetSimulationResult)
	r.GET("/simulations/:id/export", handler.ExportSimulation)
	return r, handler
}

func testPlayers() []engine.Player {
	return []engine.Player{
		{Name: "Josh Allen", Position: engine.PositionQB, Team: "BUF", Opponent: "MIA", Projection: 22.4},
		{Name: "Stefon Diggs", Position: engine.PositionWR, Team: "BUF", Opponent: "MIA", Projection: 16.8},
		{Name: "Tyreek Hill", Position: engine.PositionWR, Team: "MIA", Opponent: "BUF", Projection: 18.1},
	}
}

func postSimulation(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRunSimulation_Success(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{Players: testPlayers()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result SimulationResponse
	require.NoError(t, json.Unmarshal(data, &result))

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2000, result.NumSimulations, "server default applies when the request leaves options unset")
	assert.Equal(t, int64(42), result.Seed)
	assert.Equal(t, 3, result.PoolSize)
	require.Len(t, result.Metrics, 3)
	for i, p := range testPlayers() {
		assert.Equal(t, p.Name, result.Metrics[i].Name)
	}
}

func TestRunSimulation_TopKRanking(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{
		Players: testPlayers(),
		RankBy:  engine.FieldCeiling,
		TopK:    2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var result SimulationResponse
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Top, 2)
	assert.GreaterOrEqual(t, result.Top[0].Ceiling, result.Top[1].Ceiling)
}

func TestRunSimulation_InvalidPool(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{
		Players: []engine.Player{
			{Name: "Josh Allen", Position: engine.PositionQB, Projection: 22.4},
			{Name: "Josh Allen", Position: engine.PositionQB, Projection: 20.0},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, utils.ErrCodeValidation, resp.Error.Code)
}

func TestRunSimulation_InvalidCorrelationRules(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{
		Players: testPlayers(),
		Rules: []engine.CorrelationRule{
			{PositionA: engine.PositionQB, PositionB: engine.PositionWR, Scope: engine.ScopeTeammates, Coefficient: 1.5},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSimulation_MissingPlayers(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, map[string]interface{}{"options": map[string]interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSimulation_SimulationCountCappedAtMax(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{
		Players: testPlayers(),
		Options: engine.SimulationOptions{NumSimulations: 500000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var result SimulationResponse
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 100000, result.NumSimulations)
}

func TestGetSimulationResult(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{Players: testPlayers()})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var result SimulationResponse
	require.NoError(t, json.Unmarshal(data, &result))

	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/simulations/"+result.RunID, nil))
	assert.Equal(t, http.StatusOK, get.Code)

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/simulations/nope", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestExportSimulation(t *testing.T) {
	r, _ := testRouter(t)

	w := postSimulation(t, r, SimulationRequest{Players: testPlayers()})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data, _ := json.Marshal(resp.Data)
	var result SimulationResponse
	require.NoError(t, json.Unmarshal(data, &result))

	export := httptest.NewRecorder()
	r.ServeHTTP(export, httptest.NewRequest(http.MethodGet, "/simulations/"+result.RunID+"/export", nil))

	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, "text/csv", export.Header().Get("Content-Type"))
	assert.Contains(t, export.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, export.Body.String(), "name,position,team,projection")
	assert.Contains(t, export.Body.String(), "Josh Allen")
}

func TestResultStore_EvictsOldest(t *testing.T) {
	store := NewResultStore(3)

	for i := 0; i < 5; i++ {
		store.Put(&SimulationResponse{RunID: fmt.Sprintf("run-%d", i)})
	}

	assert.Equal(t, 3, store.Len())
	_, ok := store.Get("run-0")
	assert.False(t, ok, "oldest run should be evicted")
	_, ok = store.Get("run-4")
	assert.True(t, ok)
}
