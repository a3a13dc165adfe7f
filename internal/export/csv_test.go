package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/gpp-sim/internal/engine"
)

func exportFixture() []engine.PlayerMetrics {
	return []engine.PlayerMetrics{
		{
			Name: "Josh Allen", Position: engine.PositionQB, Team: "BUF",
			Projection: 22.4, Mean: 22.4, StdDev: 6.72, Floor: 13.9, Ceiling: 31.05,
			BoomScore: 31.25, BustRisk: 68.75, LeverageScore: 100, Consistency: 70,
		},
		{
			Name: "Scratch", Position: engine.PositionRB, Team: "BUF",
			Projection: 0, Mean: 0, StdDev: 0, Floor: 0, Ceiling: 0,
			BoomScore: 0, BustRisk: 100, LeverageScore: 0, Consistency: 100,
		},
	}
}

func TestWriteMetrics_ColumnOrder(t *testing.T) {
	csvData, err := MetricsCSV(exportFixture())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"name,position,team,projection,mean,std_dev,floor,ceiling,boom_score,bust_risk,leverage_score,consistency",
		lines[0])
}

func TestWriteMetrics_TwoDecimalPrecision(t *testing.T) {
	csvData, err := MetricsCSV(exportFixture())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	assert.Equal(t, "Josh Allen,QB,BUF,22.40,22.40,6.72,13.90,31.05,31.25,68.75,100.00,70.00", lines[1])
	assert.Equal(t, "Scratch,RB,BUF,0.00,0.00,0.00,0.00,0.00,0.00,100.00,0.00,100.00", lines[2])
}

func TestWriteMetrics_OneRowPerPlayer(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteMetrics(&sb, exportFixture()))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Len(t, lines, len(exportFixture())+1)
}
