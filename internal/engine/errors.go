package engine

import (
	"errors"
	"fmt"
	"math"
)

// InputError reports a malformed player pool entry. It is returned
// before any simulation work begins so callers never see partial runs.
type InputError struct {
	Player string
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Player == "" {
		return fmt.Sprintf("invalid player pool: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid player %q: %s: %s", e.Player, e.Field, e.Reason)
}

// ConfigError reports a simulation option rejected at configuration time.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s: %s", e.Option, e.Reason)
}

// IsInputError reports whether err is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsConfigError reports whether err is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ValidatePool checks the player pool for the failure modes in the input
// taxonomy: empty pools, duplicate names, missing names, and projections
// that are negative or not finite. Position strings outside the known
// enumeration are allowed because the volatility profile carries a FLEX
// fallback.
func ValidatePool(pool []Player) error {
	if len(pool) == 0 {
		return &InputError{Field: "pool", Reason: "no players provided"}
	}

	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		if p.Name == "" {
			return &InputError{Field: "name", Reason: "player name is required"}
		}
		if _, dup := seen[p.Name]; dup {
			return &InputError{Player: p.Name, Field: "name", Reason: "duplicate player name in pool"}
		}
		seen[p.Name] = struct{}{}

		if math.IsNaN(p.Projection) || math.IsInf(p.Projection, 0) {
			return &InputError{Player: p.Name, Field: "projection", Reason: "projection must be a finite number"}
		}
		if p.Projection < 0 {
			return &InputError{Player: p.Name, Field: "projection", Reason: fmt.Sprintf("projection must be non-negative, got %.2f", p.Projection)}
		}
	}

	return nil
}
