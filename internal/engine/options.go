package engine

import "fmt"

// Simulation count bounds. Below the floor the tail percentiles are too
// noisy to report; above the ceiling runs stop being interactive.
const (
	MinSimulations = 1000
	MaxSimulations = 100000
)

// SimulationOptions is the engine's full configuration surface. Zero
// values are filled in by DefaultOptions; anything out of range is
// rejected by Validate before a run starts.
type SimulationOptions struct {
	// NumSimulations is the number of joint outcome draws N.
	NumSimulations int `json:"num_simulations"`
	// Seed drives the random source. Identical seeds reproduce
	// identical sample matrices.
	Seed int64 `json:"seed"`
	// BoomThreshold is the multiple of projection a sample must exceed
	// to count toward the boom score.
	BoomThreshold float64 `json:"boom_threshold"`
	// FloorPercentile and CeilingPercentile pick the floor/ceiling
	// columns of the metrics table.
	FloorPercentile   float64 `json:"floor_percentile"`
	CeilingPercentile float64 `json:"ceiling_percentile"`
	// ChunkSize bounds how many draws happen between cancellation
	// checks. Chunking never changes draw order, so results are
	// bit-identical regardless of the chunk size chosen.
	ChunkSize int `json:"chunk_size,omitempty"`
}

// DefaultOptions returns the engine defaults: 10k draws, 1.5x boom
// threshold, 10/90 floor and ceiling.
func DefaultOptions() SimulationOptions {
	return SimulationOptions{
		NumSimulations:    10000,
		Seed:              42,
		BoomThreshold:     1.5,
		FloorPercentile:   10,
		CeilingPercentile: 90,
		ChunkSize:         2048,
	}
}

// withDefaults fills unset fields so callers can specify only what they
// care about.
func (o SimulationOptions) withDefaults() SimulationOptions {
	def := DefaultOptions()
	if o.NumSimulations == 0 {
		o.NumSimulations = def.NumSimulations
	}
	if o.BoomThreshold == 0 {
		o.BoomThreshold = def.BoomThreshold
	}
	if o.FloorPercentile == 0 && o.CeilingPercentile == 0 {
		o.FloorPercentile = def.FloorPercentile
		o.CeilingPercentile = def.CeilingPercentile
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = def.ChunkSize
	}
	return o
}

// Validate rejects out-of-range options before any simulation work.
func (o SimulationOptions) Validate() error {
	if o.NumSimulations < MinSimulations || o.NumSimulations > MaxSimulations {
		return &ConfigError{
			Option: "num_simulations",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinSimulations, MaxSimulations, o.NumSimulations),
		}
	}
	if o.BoomThreshold <= 0 {
		return &ConfigError{
			Option: "boom_threshold",
			Reason: fmt.Sprintf("must be positive, got %.2f", o.BoomThreshold),
		}
	}
	if o.FloorPercentile < 0 || o.FloorPercentile > 100 {
		return &ConfigError{
			Option: "floor_percentile",
			Reason: fmt.Sprintf("must be in [0, 100], got %.1f", o.FloorPercentile),
		}
	}
	if o.CeilingPercentile < 0 || o.CeilingPercentile > 100 {
		return &ConfigError{
			Option: "ceiling_percentile",
			Reason: fmt.Sprintf("must be in [0, 100], got %.1f", o.CeilingPercentile),
		}
	}
	if o.FloorPercentile >= o.CeilingPercentile {
		return &ConfigError{
			Option: "floor_percentile",
			Reason: fmt.Sprintf("floor percentile %.1f must be below ceiling percentile %.1f", o.FloorPercentile, o.CeilingPercentile),
		}
	}
	return nil
}
