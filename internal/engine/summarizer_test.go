package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summarizedRun(t *testing.T, pool []Player, opts SimulationOptions) []PlayerMetrics {
	t.Helper()
	sampler := NewSampler(nil, nil)
	run, err := sampler.Simulate(context.Background(), pool, opts, nil)
	require.NoError(t, err)
	return Summarize(run)
}

func TestSummarize_OneRowPerPlayer(t *testing.T) {
	pool := nflPool()
	metrics := summarizedRun(t, pool, SimulationOptions{NumSimulations: 2000, Seed: 21})

	require.Len(t, metrics, len(pool))
	for i, m := range metrics {
		assert.Equal(t, pool[i].Name, m.Name, "metrics rows must follow pool order")
	}
}

func TestSummarize_BoomBustComplementary(t *testing.T) {
	metrics := summarizedRun(t, nflPool(), SimulationOptions{NumSimulations: 10000, Seed: 13})

	for _, m := range metrics {
		assert.Equal(t, 100.0, m.BoomScore+m.BustRisk, "boom + bust must equal 100 exactly for %s", m.Name)
		assert.GreaterOrEqual(t, m.BoomScore, 0.0)
		assert.LessOrEqual(t, m.BoomScore, 100.0)
		assert.GreaterOrEqual(t, m.BustRisk, 0.0)
		assert.LessOrEqual(t, m.BustRisk, 100.0)
	}
}

func TestSummarize_FloorMeanCeilingOrdering(t *testing.T) {
	// Repeated seeds at N=10,000: the ordering must hold for at least
	// 99% of players across runs.
	pool := nflPool()
	total, ordered := 0, 0

	for seed := int64(1); seed <= 10; seed++ {
		metrics := summarizedRun(t, pool, SimulationOptions{NumSimulations: 10000, Seed: seed})
		for _, m := range metrics {
			total++
			if m.Floor <= m.Mean && m.Mean <= m.Ceiling {
				ordered++
			}
		}
	}

	assert.GreaterOrEqual(t, float64(ordered)/float64(total), 0.99,
		"floor <= mean <= ceiling should hold for at least 99%% of players")
}

func TestSummarize_DegenerateProjection(t *testing.T) {
	pool := []Player{
		{Name: "Allen", Position: PositionQB, Team: "BUF", Projection: 22},
		{Name: "Scratch", Position: PositionRB, Team: "BUF", Projection: 0},
	}

	metrics := summarizedRun(t, pool, SimulationOptions{NumSimulations: 2000, Seed: 17})

	scratch := metrics[1]
	assert.Zero(t, scratch.Mean)
	assert.Zero(t, scratch.StdDev)
	assert.Zero(t, scratch.Floor)
	assert.Zero(t, scratch.Ceiling)
	assert.Equal(t, 100.0, scratch.Consistency, "zero-mean column is perfectly consistent by definition")
}

func TestSummarize_ConsistencyBounds(t *testing.T) {
	metrics := summarizedRun(t, nflPool(), SimulationOptions{NumSimulations: 5000, Seed: 29})

	for _, m := range metrics {
		assert.GreaterOrEqual(t, m.Consistency, 0.0)
		assert.LessOrEqual(t, m.Consistency, 100.0)
	}
}

func TestSummarize_LeverageBoundsAndSpread(t *testing.T) {
	metrics := summarizedRun(t, nflPool(), SimulationOptions{NumSimulations: 5000, Seed: 31})

	low, high := false, false
	for _, m := range metrics {
		assert.GreaterOrEqual(t, m.LeverageScore, 0.0)
		assert.LessOrEqual(t, m.LeverageScore, 100.0)
		if m.LeverageScore == 0 {
			low = true
		}
		if m.LeverageScore == 100 {
			high = true
		}
	}
	// Min-max rescaling pins the extremes of a non-flat field.
	assert.True(t, low && high, "rescaled leverage should span the full range")
}

func TestSummarize_SinglePlayerLeverageIsNeutral(t *testing.T) {
	pool := []Player{{Name: "Allen", Position: PositionQB, Projection: 22}}
	metrics := summarizedRun(t, pool, SimulationOptions{NumSimulations: 2000, Seed: 37})

	require.Len(t, metrics, 1)
	assert.Equal(t, 50.0, metrics[0].LeverageScore)
}

func TestSummarize_CustomPercentilesWiden(t *testing.T) {
	pool := nflPool()

	tight := summarizedRun(t, pool, SimulationOptions{
		NumSimulations: 10000, Seed: 41, FloorPercentile: 25, CeilingPercentile: 75,
	})
	wide := summarizedRun(t, pool, SimulationOptions{
		NumSimulations: 10000, Seed: 41, FloorPercentile: 5, CeilingPercentile: 95,
	})

	for i := range pool {
		assert.LessOrEqual(t, wide[i].Floor, tight[i].Floor)
		assert.GreaterOrEqual(t, wide[i].Ceiling, tight[i].Ceiling)
	}
}

func TestSummarize_BoomThresholdMonotonic(t *testing.T) {
	pool := nflPool()

	easy := summarizedRun(t, pool, SimulationOptions{NumSimulations: 10000, Seed: 43, BoomThreshold: 1.2})
	hard := summarizedRun(t, pool, SimulationOptions{NumSimulations: 10000, Seed: 43, BoomThreshold: 1.8})

	for i := range pool {
		assert.GreaterOrEqual(t, easy[i].BoomScore, hard[i].BoomScore,
			"a lower boom threshold can only raise the boom score")
	}
}
