package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolatilityProfile_ExactMatchWins(t *testing.T) {
	profile := NewVolatilityProfile(map[Position]float64{
		PositionQB:   0.30,
		PositionWR:   0.45,
		PositionFlex: 0.40,
	})

	assert.Equal(t, 0.30, profile.CVFor(Player{Name: "Allen", Position: PositionQB}))
	assert.Equal(t, 0.45, profile.CVFor(Player{Name: "Hill", Position: PositionWR}))
}

func TestVolatilityProfile_FallbackForUnmatchedPosition(t *testing.T) {
	profile := NewVolatilityProfile(map[Position]float64{
		PositionQB:   0.30,
		PositionFlex: 0.40,
	})

	// RB has no entry, falls back to FLEX
	assert.Equal(t, 0.40, profile.CVFor(Player{Name: "McCaffrey", Position: PositionRB}))
	// Positions outside the enumeration also fall back
	assert.Equal(t, 0.40, profile.CVFor(Player{Name: "Mystery", Position: Position("LS")}))
}

func TestVolatilityProfile_MissingFlexGetsDefault(t *testing.T) {
	profile := NewVolatilityProfile(map[Position]float64{
		PositionQB: 0.30,
	})

	cv := profile.CVFor(Player{Name: "Kelce", Position: PositionTE})
	assert.Equal(t, defaultVolatility[PositionFlex], cv, "fallback should never be zero")
}

func TestVolatilityProfile_DefaultTableIsTotal(t *testing.T) {
	profile := DefaultVolatilityProfile()
	assert.NoError(t, profile.Validate())

	for _, pos := range KnownPositions {
		cv := profile.CVFor(Player{Name: "X", Position: pos})
		assert.Greater(t, cv, 0.0, "position %s must have a positive CV", pos)
		assert.LessOrEqual(t, cv, 0.60, "position %s CV is out of the plausible range", pos)
	}
}

func TestVolatilityProfile_ValidateRejectsNonPositiveCV(t *testing.T) {
	profile := NewVolatilityProfile(map[Position]float64{
		PositionQB: -0.10,
	})

	err := profile.Validate()
	assert.Error(t, err)
	assert.True(t, IsConfigError(err))
}
