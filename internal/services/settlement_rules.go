package services

import (
	"fmt"
	"sync"

	"prediction-arena/internal/config"
	"prediction-arena/internal/models"

	"github.com/shopspring/decimal"
)

// SettlementRule computes a market outcome from its base price and the
// price observed at resolution time.
type SettlementRule func(base, current decimal.Decimal) string

// RuleRegistry maps market ids to settlement rules. Markets without a
// registered rule resolve to NO, the safe default for unrecognized ids.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]SettlementRule
}

func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: make(map[string]SettlementRule)}
}

// Register installs a rule for a market id, replacing any existing one.
func (r *RuleRegistry) Register(marketID string, rule SettlementRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[marketID] = rule
}

// RegisterSpec installs a rule described by a config spec.
func (r *RuleRegistry) RegisterSpec(marketID string, spec config.RuleSpec) error {
	rule, err := RuleFromSpec(spec)
	if err != nil {
		return fmt.Errorf("market %s: %w", marketID, err)
	}
	r.Register(marketID, rule)
	return nil
}

// Outcome applies the market's rule, defaulting to NO when none is known.
func (r *RuleRegistry) Outcome(marketID string, base, current decimal.Decimal) string {
	r.mu.RLock()
	rule, ok := r.rules[marketID]
	r.mu.RUnlock()

	if !ok {
		return models.OutcomeNo
	}
	return rule(base, current)
}

// RuleFromSpec builds a settlement predicate from its declarative form.
func RuleFromSpec(spec config.RuleSpec) (SettlementRule, error) {
	switch spec.Type {
	case "price-multiple":
		if spec.Factor <= 0 {
			return nil, fmt.Errorf("price-multiple rule needs a positive factor")
		}
		factor := decimal.NewFromFloat(spec.Factor)
		return func(base, current decimal.Decimal) string {
			if current.GreaterThanOrEqual(base.Mul(factor)) {
				return models.OutcomeYes
			}
			return models.OutcomeNo
		}, nil

	case "within-percent":
		if spec.TolerancePercent <= 0 {
			return nil, fmt.Errorf("within-percent rule needs a positive tolerance")
		}
		tolerance := decimal.NewFromFloat(spec.TolerancePercent).Div(decimal.NewFromInt(100))
		return func(base, current decimal.Decimal) string {
			if current.Sub(base).Abs().LessThanOrEqual(base.Mul(tolerance)) {
				return models.OutcomeYes
			}
			return models.OutcomeNo
		}, nil

	default:
		return nil, fmt.Errorf("unknown rule type %q", spec.Type)
	}
}
