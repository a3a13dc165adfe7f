package engine

import (
	"fmt"
	"sort"
)

// RuleScope restricts which player pairs a correlation rule can match.
type RuleScope string

const (
	// ScopeTeammates matches pairs on the same team.
	ScopeTeammates RuleScope = "teammates"
	// ScopeOpponents matches pairs in the same game on different teams.
	ScopeOpponents RuleScope = "opponents"
	// ScopeAny matches pairs regardless of team context.
	ScopeAny RuleScope = "any"
)

// CorrelationRule declares a pairwise correlation pattern. A rule can
// name players explicitly (PlayerA/PlayerB), constrain positions, or
// both. Rules are unordered: a QB/WR rule matches regardless of which
// player is listed first.
type CorrelationRule struct {
	PlayerA     string    `json:"player_a,omitempty"`
	PlayerB     string    `json:"player_b,omitempty"`
	PositionA   Position  `json:"position_a,omitempty"`
	PositionB   Position  `json:"position_b,omitempty"`
	Scope       RuleScope `json:"scope"`
	Coefficient float64   `json:"coefficient"`
}

// specificity orders rules deterministically: rules naming both players
// outrank rules naming one, which outrank purely positional rules.
// Within a tier, team-scoped rules outrank unscoped ones, and earlier
// declaration wins.
func (r CorrelationRule) specificity() int {
	score := 0
	if r.PlayerA != "" {
		score += 4
	}
	if r.PlayerB != "" {
		score += 4
	}
	if r.Scope == ScopeTeammates || r.Scope == ScopeOpponents {
		score++
	}
	return score
}

// CorrelationPair is an emitted match: two distinct pooled players and
// the signed coefficient from the winning rule. Pairs absent from the
// model's output are implicitly uncorrelated.
type CorrelationPair struct {
	PlayerA     string  `json:"player_a"`
	PlayerB     string  `json:"player_b"`
	Coefficient float64 `json:"coefficient"`
}

// CorrelationModel evaluates a fixed rule table against a player pool.
type CorrelationModel struct {
	rules []CorrelationRule
}

// Stack coefficients for NFL teammates and game opponents. The QB/WR
// and QB/TE entries carry the classic GPP stack signal; RB pairs on the
// same team cannibalize touches and correlate negatively.
func DefaultCorrelationRules() []CorrelationRule {
	return []CorrelationRule{
		{PositionA: PositionQB, PositionB: PositionWR, Scope: ScopeTeammates, Coefficient: 0.50},
		{PositionA: PositionQB, PositionB: PositionTE, Scope: ScopeTeammates, Coefficient: 0.40},
		{PositionA: PositionQB, PositionB: PositionRB, Scope: ScopeTeammates, Coefficient: 0.10},
		{PositionA: PositionQB, PositionB: PositionDST, Scope: ScopeTeammates, Coefficient: -0.20},
		{PositionA: PositionWR, PositionB: PositionWR, Scope: ScopeTeammates, Coefficient: 0.25},
		{PositionA: PositionWR, PositionB: PositionTE, Scope: ScopeTeammates, Coefficient: 0.10},
		{PositionA: PositionRB, PositionB: PositionRB, Scope: ScopeTeammates, Coefficient: -0.30},
		{PositionA: PositionRB, PositionB: PositionWR, Scope: ScopeTeammates, Coefficient: -0.10},
		{PositionA: PositionRB, PositionB: PositionDST, Scope: ScopeTeammates, Coefficient: 0.15},
		{PositionA: PositionQB, PositionB: PositionWR, Scope: ScopeOpponents, Coefficient: 0.25},
		{PositionA: PositionQB, PositionB: PositionTE, Scope: ScopeOpponents, Coefficient: 0.25},
		{PositionA: PositionQB, PositionB: PositionQB, Scope: ScopeOpponents, Coefficient: 0.20},
		{PositionA: PositionRB, PositionB: PositionDST, Scope: ScopeOpponents, Coefficient: -0.30},
		{PositionA: PositionQB, PositionB: PositionDST, Scope: ScopeOpponents, Coefficient: -0.35},
	}
}

// NewCorrelationModel validates and orders the rule table. Rules are
// sorted by descending specificity with declaration order as the tie
// break, so the winning rule for any pair is deterministic.
func NewCorrelationModel(rules []CorrelationRule) (*CorrelationModel, error) {
	for i, r := range rules {
		if r.Coefficient < -1 || r.Coefficient > 1 {
			return nil, &ConfigError{
				Option: fmt.Sprintf("correlation_rules[%d].coefficient", i),
				Reason: fmt.Sprintf("coefficient must be in [-1, 1], got %.2f", r.Coefficient),
			}
		}
		if r.PlayerA != "" && r.PlayerA == r.PlayerB {
			return nil, &ConfigError{
				Option: fmt.Sprintf("correlation_rules[%d]", i),
				Reason: "self-correlation rules are not allowed",
			}
		}
		if r.Scope != ScopeTeammates && r.Scope != ScopeOpponents && r.Scope != ScopeAny {
			return nil, &ConfigError{
				Option: fmt.Sprintf("correlation_rules[%d].scope", i),
				Reason: fmt.Sprintf("unknown scope %q", r.Scope),
			}
		}
	}

	ordered := make([]CorrelationRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].specificity() > ordered[j].specificity()
	})

	return &CorrelationModel{rules: ordered}, nil
}

// PairsFor evaluates every rule against every unordered candidate pair
// in the pool and emits the matched pairs with their coefficients. The
// most specific matching rule wins; self-pairs are never emitted.
func (cm *CorrelationModel) PairsFor(pool []Player) []CorrelationPair {
	pairs := make([]CorrelationPair, 0)

	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			if rule, ok := cm.match(pool[i], pool[j]); ok {
				pairs = append(pairs, CorrelationPair{
					PlayerA:     pool[i].Name,
					PlayerB:     pool[j].Name,
					Coefficient: rule.Coefficient,
				})
			}
		}
	}

	return pairs
}

// match returns the first (most specific) rule matching the pair.
func (cm *CorrelationModel) match(a, b Player) (CorrelationRule, bool) {
	for _, rule := range cm.rules {
		if ruleMatches(rule, a, b) || ruleMatches(rule, b, a) {
			return rule, true
		}
	}
	return CorrelationRule{}, false
}

func ruleMatches(rule CorrelationRule, a, b Player) bool {
	if rule.PlayerA != "" && rule.PlayerA != a.Name {
		return false
	}
	if rule.PlayerB != "" && rule.PlayerB != b.Name {
		return false
	}
	if rule.PositionA != "" && rule.PositionA != a.Position {
		return false
	}
	if rule.PositionB != "" && rule.PositionB != b.Position {
		return false
	}

	switch rule.Scope {
	case ScopeTeammates:
		return a.Team != "" && a.Team == b.Team
	case ScopeOpponents:
		key := a.GameKey()
		return key != "" && key == b.GameKey() && a.Team != b.Team
	default:
		return true
	}
}
