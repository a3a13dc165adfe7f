package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// ProgressUpdate reports sampler progress between chunks. Sends are
// non-blocking, so slow consumers only miss intermediate updates.
type ProgressUpdate struct {
	RunID     string    `json:"run_id"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SimulationRun owns the realized sample matrix for one invocation. It
// is created per run, never mutated after sampling completes, and not
// shared across runs.
type SimulationRun struct {
	ID             string
	Pool           []Player
	Pairs          []CorrelationPair
	NumSimulations int
	Seed           int64
	Options        SimulationOptions
	CreatedAt      time.Time

	// Samples is the N x P matrix of simulated fantasy points, one
	// column per pooled player in pool order. Values are non-negative.
	Samples *mat.Dense
}

// Column returns a copy of one player's simulated outcomes.
func (r *SimulationRun) Column(j int) []float64 {
	return mat.Col(nil, j, r.Samples)
}

// Sampler draws joint outcome vectors for a player pool honoring each
// player's marginal distribution and the declared pairwise correlations.
type Sampler struct {
	volatility *VolatilityProfile
	model      *CorrelationModel
}

// NewSampler wires a sampler from a volatility profile and correlation
// model. Nil arguments fall back to the built-in defaults.
func NewSampler(volatility *VolatilityProfile, model *CorrelationModel) *Sampler {
	if volatility == nil {
		volatility = DefaultVolatilityProfile()
	}
	if model == nil {
		model, _ = NewCorrelationModel(DefaultCorrelationRules())
	}
	return &Sampler{volatility: volatility, model: model}
}

// Simulate validates the pool and options, then draws N joint samples.
// Each marginal is a zero-truncated normal with mean = projection and
// sd = projection * CV; the joint structure comes from the Cholesky
// factor of the rule-derived correlation matrix. Identical inputs yield
// a bit-identical matrix. Cancellation is checked between chunks; a
// cancelled run returns ctx.Err() and no partial matrix.
func (s *Sampler) Simulate(ctx context.Context, pool []Player, opts SimulationOptions, progress chan<- ProgressUpdate) (*SimulationRun, error) {
	opts = opts.withDefaults()

	if err := ValidatePool(pool); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := s.volatility.Validate(); err != nil {
		return nil, err
	}

	run := &SimulationRun{
		ID:             uuid.New().String(),
		Pool:           pool,
		Pairs:          s.model.PairsFor(pool),
		NumSimulations: opts.NumSimulations,
		Seed:           opts.Seed,
		Options:        opts,
		CreatedAt:      time.Now().UTC(),
	}

	numPlayers := len(pool)
	means := make([]float64, numPlayers)
	stdDevs := make([]float64, numPlayers)

	// Zero-projection players have degenerate always-zero marginals.
	// They stay out of the correlated draw entirely so the joint factor
	// never sees a zero-variance row.
	active := make([]int, 0, numPlayers)
	activeIdx := make(map[int]int, numPlayers)
	for i, p := range pool {
		means[i] = p.Projection
		stdDevs[i] = p.Projection * s.volatility.CVFor(p)
		if stdDevs[i] > 0 {
			activeIdx[i] = len(active)
			active = append(active, i)
		}
	}

	factor, err := s.correlationFactor(pool, run.Pairs, active, activeIdx)
	if err != nil {
		return nil, err
	}

	samples := mat.NewDense(opts.NumSimulations, numPlayers, nil)
	rng := rand.New(rand.NewSource(opts.Seed))

	z := make([]float64, len(active))
	w := make([]float64, len(active))

	for start := 0; start < opts.NumSimulations; start += opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled after %d of %d draws: %w", start, opts.NumSimulations, err)
		}

		end := start + opts.ChunkSize
		if end > opts.NumSimulations {
			end = opts.NumSimulations
		}

		for row := start; row < end; row++ {
			for k := range z {
				z[k] = rng.NormFloat64()
			}
			correlate(factor, z, w)

			for k, i := range active {
				outcome := means[i] + stdDevs[i]*w[k]
				if outcome < 0 {
					outcome = 0
				}
				samples.Set(row, i, outcome)
			}
		}

		notifyProgress(progress, run.ID, end, opts.NumSimulations)
	}

	// Truncation at zero drags sample means below projection for high
	// CV players. Rescale each column multiplicatively so the intended
	// mean survives the clamp; scaling preserves non-negativity and
	// pairwise correlation.
	rescaleColumns(samples, means, active)

	run.Samples = samples
	return run, nil
}

// correlationFactor builds the correlation matrix over active players
// and returns its lower Cholesky factor. A rule table that is not
// jointly consistent can produce a non-positive-definite matrix; in
// that case the off-diagonals are shrunk toward identity until the
// factorization succeeds, which keeps every pairwise sign intact.
func (s *Sampler) correlationFactor(pool []Player, pairs []CorrelationPair, active []int, activeIdx map[int]int) (*mat.TriDense, error) {
	n := len(active)
	if n == 0 {
		return nil, nil
	}

	indexByName := make(map[string]int, len(pool))
	for i, p := range pool {
		indexByName[p.Name] = i
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
	}
	for _, pair := range pairs {
		i, okA := activeIdx[indexByName[pair.PlayerA]]
		j, okB := activeIdx[indexByName[pair.PlayerB]]
		if !okA || !okB {
			continue // degenerate marginal, uncorrelated by definition
		}
		corr.SetSym(i, j, pair.Coefficient)
	}

	var chol mat.Cholesky
	for step := 0; step <= 20; step++ {
		shrink := float64(step) / 20
		shrunk := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := corr.At(i, j)
				if i != j {
					v *= 1 - shrink
				}
				shrunk.SetSym(i, j, v)
			}
		}
		if chol.Factorize(shrunk) {
			factor := mat.NewTriDense(n, mat.Lower, nil)
			chol.LTo(factor)
			return factor, nil
		}
	}

	return nil, &ConfigError{
		Option: "correlation_rules",
		Reason: "correlation matrix could not be factorized",
	}
}

// correlate applies the lower-triangular factor: w = L * z.
func correlate(factor *mat.TriDense, z, w []float64) {
	if factor == nil {
		copy(w, z)
		return
	}
	n := len(z)
	for i := 0; i < n; i++ {
		sum := 0.0
		for k := 0; k <= i; k++ {
			sum += factor.At(i, k) * z[k]
		}
		w[i] = sum
	}
}

func rescaleColumns(samples *mat.Dense, means []float64, active []int) {
	rows, _ := samples.Dims()
	for _, j := range active {
		sum := 0.0
		for row := 0; row < rows; row++ {
			sum += samples.At(row, j)
		}
		sampleMean := sum / float64(rows)
		if sampleMean <= 0 || means[j] <= 0 {
			continue
		}
		scale := means[j] / sampleMean
		if math.Abs(scale-1) < 1e-12 {
			continue
		}
		for row := 0; row < rows; row++ {
			samples.Set(row, j, samples.At(row, j)*scale)
		}
	}
}

func notifyProgress(progress chan<- ProgressUpdate, runID string, completed, total int) {
	if progress == nil {
		return
	}
	update := ProgressUpdate{
		RunID:     runID,
		Completed: completed,
		Total:     total,
		Message:   fmt.Sprintf("completed %d of %d draws", completed, total),
		Timestamp: time.Now().UTC(),
	}
	select {
	case progress <- update:
	default:
	}
}
