package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankerFixture() []PlayerMetrics {
	return []PlayerMetrics{
		{Name: "Allen", Position: PositionQB, BoomScore: 31.2, Ceiling: 34.1},
		{Name: "Hill", Position: PositionWR, BoomScore: 44.8, Ceiling: 31.0},
		{Name: "Chubb", Position: PositionRB, BoomScore: 28.5, Ceiling: 25.2},
		{Name: "Diggs", Position: PositionWR, BoomScore: 44.8, Ceiling: 27.9},
		{Name: "Kelce", Position: PositionTE, BoomScore: 39.1, Ceiling: 26.4},
	}
}

func TestTopK_SortsDescendingWithNameTieBreak(t *testing.T) {
	top := TopK(rankerFixture(), FieldBoomScore, 3)

	require.Len(t, top, 3)
	// Diggs and Hill tie on boom score; Diggs wins the name tie break.
	assert.Equal(t, "Diggs", top[0].Name)
	assert.Equal(t, "Hill", top[1].Name)
	assert.Equal(t, "Kelce", top[2].Name)
}

func TestTopK_ClampsToPoolSize(t *testing.T) {
	metrics := rankerFixture()

	top := TopK(metrics, FieldBoomScore, 10)
	assert.Len(t, top, len(metrics), "k beyond pool size clamps, never errors")

	assert.Empty(t, TopK(metrics, FieldBoomScore, 0))
	assert.Empty(t, TopK(metrics, FieldBoomScore, -1))
}

func TestTopK_NoDuplicates(t *testing.T) {
	top := TopK(rankerFixture(), FieldBoomScore, 5)

	seen := make(map[string]bool)
	for _, m := range top {
		assert.False(t, seen[m.Name], "duplicate player %s", m.Name)
		seen[m.Name] = true
	}
}

func TestTopK_ByDifferentFields(t *testing.T) {
	metrics := rankerFixture()

	byCeiling := TopK(metrics, FieldCeiling, 1)
	require.Len(t, byCeiling, 1)
	assert.Equal(t, "Allen", byCeiling[0].Name)
}

func TestTopK_DoesNotMutateInput(t *testing.T) {
	metrics := rankerFixture()
	TopK(metrics, FieldBoomScore, 5)

	assert.Equal(t, "Allen", metrics[0].Name, "input order must be preserved")
}
