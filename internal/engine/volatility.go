package engine

// VolatilityProfile maps a roster position to the coefficient of
// variation used to size that position's outcome spread. The profile is
// total over the position enumeration: positions without an exact entry
// resolve through the FLEX default, so CVFor never fails.
type VolatilityProfile struct {
	byPosition map[Position]float64
	fallback   float64
}

// Position volatility defaults. NFL scoring spreads by position, with
// touchdown-dependent roles carrying wider distributions than volume
// roles.
var defaultVolatility = map[Position]float64{
	PositionQB:   0.30,
	PositionRB:   0.40,
	PositionWR:   0.45,
	PositionTE:   0.45,
	PositionDST:  0.50,
	PositionK:    0.50,
	PositionFlex: 0.40,
}

// DefaultVolatilityProfile returns the built-in position CV table.
func DefaultVolatilityProfile() *VolatilityProfile {
	return NewVolatilityProfile(defaultVolatility)
}

// NewVolatilityProfile builds a profile from a position CV table. The
// FLEX entry becomes the fallback for unmatched positions; if the table
// has no FLEX entry the built-in FLEX default is used so the profile
// stays total.
func NewVolatilityProfile(table map[Position]float64) *VolatilityProfile {
	byPosition := make(map[Position]float64, len(table))
	for pos, cv := range table {
		byPosition[pos] = cv
	}

	fallback, ok := byPosition[PositionFlex]
	if !ok || fallback <= 0 {
		fallback = defaultVolatility[PositionFlex]
		byPosition[PositionFlex] = fallback
	}

	return &VolatilityProfile{byPosition: byPosition, fallback: fallback}
}

// Validate checks every entry is a positive coefficient of variation.
func (vp *VolatilityProfile) Validate() error {
	for pos, cv := range vp.byPosition {
		if cv <= 0 {
			return &ConfigError{
				Option: "volatility." + string(pos),
				Reason: "coefficient of variation must be positive",
			}
		}
	}
	return nil
}

// CVFor returns the coefficient of variation for a player. Exact
// position match wins; anything else falls back to the FLEX entry.
func (vp *VolatilityProfile) CVFor(player Player) float64 {
	if cv, ok := vp.byPosition[player.Position]; ok {
		return cv
	}
	return vp.fallback
}
