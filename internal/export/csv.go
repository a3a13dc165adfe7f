// Package export serializes metrics tables for download. Column order
// is fixed and numbers keep two decimal places so files diff cleanly
// across runs.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/stitts-dev/gpp-sim/internal/engine"
)

// Columns is the exported column order for metrics CSVs.
var Columns = []string{
	"name", "position", "team", "projection",
	"mean", "std_dev", "floor", "ceiling",
	"boom_score", "bust_risk", "leverage_score", "consistency",
}

// WriteMetrics writes a metrics table as CSV, one row per player in
// table order.
func WriteMetrics(w io.Writer, metrics []engine.PlayerMetrics) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, m := range metrics {
		record := []string{
			m.Name,
			string(m.Position),
			m.Team,
			format(m.Projection),
			format(m.Mean),
			format(m.StdDev),
			format(m.Floor),
			format(m.Ceiling),
			format(m.BoomScore),
			format(m.BustRisk),
			format(m.LeverageScore),
			format(m.Consistency),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", m.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// MetricsCSV renders a metrics table to an in-memory CSV payload.
func MetricsCSV(metrics []engine.PlayerMetrics) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMetrics(&buf, metrics); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
