// Package ingest turns uploaded player CSVs into normalized engine
// pools. Column-name mapping lives here, not in the engine: the engine
// only ever sees already-normalized records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stitts-dev/gpp-sim/internal/engine"
)

// ColumnMapping overrides header detection with explicit column names.
// Empty fields fall back to the candidate lists below.
type ColumnMapping struct {
	Name       string `json:"name,omitempty"`
	Position   string `json:"position,omitempty"`
	Team       string `json:"team,omitempty"`
	Opponent   string `json:"opponent,omitempty"`
	Projection string `json:"projection,omitempty"`
}

// Header candidates, in priority order, covering DraftKings and FanDuel
// exports plus the common hand-rolled sheets.
var (
	nameCandidates       = []string{"Name", "Player", "Player Name", "player_name"}
	positionCandidates   = []string{"Position", "Pos", "Roster Position"}
	teamCandidates       = []string{"Team", "TeamAbbrev", "Tm"}
	opponentCandidates   = []string{"Opponent", "Opp"}
	projectionCandidates = []string{"FPTS", "Projection", "Points", "Avg", "proj", "FP", "AvgPointsPerGame"}
)

// ReadPool parses a player CSV into an engine pool. Name and projection
// columns are required; position, team and opponent are optional.
// Malformed rows are rejected with the player and field that failed, so
// the caller can fix the file rather than guess.
func ReadPool(r io.Reader, mapping ColumnMapping) ([]engine.Player, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	nameCol, err := resolveColumn(header, mapping.Name, nameCandidates, "name", true)
	if err != nil {
		return nil, err
	}
	projCol, err := resolveColumn(header, mapping.Projection, projectionCandidates, "projection", true)
	if err != nil {
		return nil, err
	}
	posCol, _ := resolveColumn(header, mapping.Position, positionCandidates, "position", false)
	teamCol, _ := resolveColumn(header, mapping.Team, teamCandidates, "team", false)
	oppCol, _ := resolveColumn(header, mapping.Opponent, opponentCandidates, "opponent", false)

	var pool []engine.Player
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", rowNum, err)
		}

		name := strings.TrimSpace(field(record, nameCol))
		if name == "" {
			return nil, &engine.InputError{
				Field:  "name",
				Reason: fmt.Sprintf("row %d has an empty name", rowNum),
			}
		}

		rawProj := strings.TrimSpace(field(record, projCol))
		projection, err := strconv.ParseFloat(rawProj, 64)
		if err != nil {
			return nil, &engine.InputError{
				Player: name,
				Field:  "projection",
				Reason: fmt.Sprintf("row %d: %q is not numeric", rowNum, rawProj),
			}
		}

		pool = append(pool, engine.Player{
			Name:       name,
			Position:   NormalizePosition(field(record, posCol)),
			Team:       strings.ToUpper(strings.TrimSpace(field(record, teamCol))),
			Opponent:   strings.ToUpper(strings.TrimSpace(field(record, oppCol))),
			Projection: projection,
		})
	}

	if err := engine.ValidatePool(pool); err != nil {
		return nil, err
	}

	return pool, nil
}

// NormalizePosition maps site position strings onto the engine
// enumeration. Unrecognized positions become FLEX, matching the
// volatility profile's fallback.
func NormalizePosition(raw string) engine.Position {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return engine.PositionQB
	case "RB":
		return engine.PositionRB
	case "WR":
		return engine.PositionWR
	case "TE":
		return engine.PositionTE
	case "DST", "DEF", "D", "D/ST":
		return engine.PositionDST
	case "K", "PK":
		return engine.PositionK
	default:
		return engine.PositionFlex
	}
}

// resolveColumn finds a header index by explicit override first, then
// the candidate list. Matching is case-insensitive.
func resolveColumn(header []string, override string, candidates []string, semantic string, required bool) (int, error) {
	if override != "" {
		if idx := findHeader(header, override); idx >= 0 {
			return idx, nil
		}
		return -1, &engine.InputError{
			Field:  semantic,
			Reason: fmt.Sprintf("mapped column %q not found in header", override),
		}
	}

	for _, candidate := range candidates {
		if idx := findHeader(header, candidate); idx >= 0 {
			return idx, nil
		}
	}

	if required {
		return -1, &engine.InputError{
			Field:  semantic,
			Reason: fmt.Sprintf("no %s column found (looked for %s)", semantic, strings.Join(candidates, ", ")),
		}
	}
	return -1, nil
}

func findHeader(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
