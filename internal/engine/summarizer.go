package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summarize reduces a run's sample matrix to one PlayerMetrics row per
// pooled player, in pool order. Every value is computed strictly from
// the matrix; nothing is hand-set.
//
// Boom score is the share of draws strictly above boomThreshold times
// projection, rescaled to [0,100]; bust risk is its complement, so the
// two always sum to exactly 100. Leverage rescales the gap between a
// player's ceiling and the field's median ceiling to [0,100], rewarding
// ceilings the rest of the pool cannot reach. Consistency is
// 100*(1 - std/mean) clamped to [0,100], and defined as 100 for a
// degenerate zero-mean column.
func Summarize(run *SimulationRun) []PlayerMetrics {
	opts := run.Options.withDefaults()
	numPlayers := len(run.Pool)

	metrics := make([]PlayerMetrics, numPlayers)
	ceilings := make([]float64, numPlayers)

	for j, player := range run.Pool {
		column := run.Column(j)
		sorted := append([]float64(nil), column...)
		sort.Float64s(sorted)

		mean := stat.Mean(column, nil)
		stdDev := stat.StdDev(column, nil)
		floor := stat.Quantile(opts.FloorPercentile/100, stat.Empirical, sorted, nil)
		ceiling := stat.Quantile(opts.CeilingPercentile/100, stat.Empirical, sorted, nil)
		ceilings[j] = ceiling

		boomLine := opts.BoomThreshold * player.Projection
		booms := 0
		for _, v := range column {
			if v > boomLine {
				booms++
			}
		}
		boomScore := 100 * float64(booms) / float64(len(column))

		metrics[j] = PlayerMetrics{
			Name:        player.Name,
			Position:    player.Position,
			Team:        player.Team,
			Projection:  player.Projection,
			Mean:        mean,
			StdDev:      stdDev,
			Floor:       floor,
			Ceiling:     ceiling,
			BoomScore:   boomScore,
			BustRisk:    100 - boomScore,
			Consistency: consistency(mean, stdDev),
		}
	}

	applyLeverage(metrics, ceilings)
	return metrics
}

func consistency(mean, stdDev float64) float64 {
	if mean == 0 {
		return 100
	}
	score := 100 * (1 - stdDev/mean)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// applyLeverage writes the leverage column: each player's ceiling gap
// over the field median, min-max rescaled across the pool. A flat field
// (single player, or identical ceilings) scores everyone 50.
func applyLeverage(metrics []PlayerMetrics, ceilings []float64) {
	sorted := append([]float64(nil), ceilings...)
	sort.Float64s(sorted)
	fieldCeiling := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	minGap, maxGap := 0.0, 0.0
	gaps := make([]float64, len(ceilings))
	for i, c := range ceilings {
		gaps[i] = c - fieldCeiling
		if i == 0 || gaps[i] < minGap {
			minGap = gaps[i]
		}
		if i == 0 || gaps[i] > maxGap {
			maxGap = gaps[i]
		}
	}

	span := maxGap - minGap
	for i := range metrics {
		if span == 0 {
			metrics[i].LeverageScore = 50
			continue
		}
		metrics[i].LeverageScore = 100 * (gaps[i] - minGap) / span
	}
}
