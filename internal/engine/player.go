package engine

// Position represents a fantasy roster position
type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionDST  Position = "DST"
	PositionK    Position = "K"
	PositionFlex Position = "FLEX"
)

// KnownPositions lists the enumerated positions the engine recognizes.
// Anything else resolves through the FLEX fallback in the volatility profile.
var KnownPositions = []Position{
	PositionQB, PositionRB, PositionWR, PositionTE,
	PositionDST, PositionK, PositionFlex,
}

// IsKnownPosition reports whether pos is one of the enumerated positions.
func IsKnownPosition(pos Position) bool {
	for _, p := range KnownPositions {
		if p == pos {
			return true
		}
	}
	return false
}

// Player represents a single pool entry with its site projection.
// Players are immutable once a simulation run starts; Name is the
// unique identifier within a run.
type Player struct {
	Name       string   `json:"name"`
	Position   Position `json:"position"`
	Team       string   `json:"team,omitempty"`
	Opponent   string   `json:"opponent,omitempty"`
	Projection float64  `json:"projection"`
}

// GameKey returns a canonical key for the game this player is in, so
// that teammates and opponents resolve to the same game regardless of
// which side of the matchup they are listed on.
func (p Player) GameKey() string {
	if p.Team == "" || p.Opponent == "" {
		return ""
	}
	if p.Team < p.Opponent {
		return p.Team + "@" + p.Opponent
	}
	return p.Opponent + "@" + p.Team
}

// PlayerMetrics holds the per-player summary statistics derived from a
// simulation run. All values come strictly from the sample matrix.
type PlayerMetrics struct {
	Name          string   `json:"name"`
	Position      Position `json:"position"`
	Team          string   `json:"team,omitempty"`
	Projection    float64  `json:"projection"`
	Mean          float64  `json:"mean"`
	StdDev        float64  `json:"std_dev"`
	Floor         float64  `json:"floor"`
	Ceiling       float64  `json:"ceiling"`
	BoomScore     float64  `json:"boom_score"`
	BustRisk      float64  `json:"bust_risk"`
	LeverageScore float64  `json:"leverage_score"`
	Consistency   float64  `json:"consistency"`
}

// MetricField selects a PlayerMetrics column for ranking.
type MetricField string

const (
	FieldMean        MetricField = "mean"
	FieldStdDev      MetricField = "std_dev"
	FieldFloor       MetricField = "floor"
	FieldCeiling     MetricField = "ceiling"
	FieldBoomScore   MetricField = "boom_score"
	FieldBustRisk    MetricField = "bust_risk"
	FieldLeverage    MetricField = "leverage_score"
	FieldConsistency MetricField = "consistency"
)

// Value returns the metric column selected by field.
func (m PlayerMetrics) Value(field MetricField) float64 {
	switch field {
	case FieldMean:
		return m.Mean
	case FieldStdDev:
		return m.StdDev
	case FieldFloor:
		return m.Floor
	case FieldCeiling:
		return m.Ceiling
	case FieldBoomScore:
		return m.BoomScore
	case FieldBustRisk:
		return m.BustRisk
	case FieldLeverage:
		return m.LeverageScore
	case FieldConsistency:
		return m.Consistency
	default:
		return m.Mean
	}
}
