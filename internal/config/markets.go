package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "72h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarketSeed describes one demo market seeded into an empty store, together
// with the settlement rule that resolves it. DeadlineOffset is relative to
// the moment of seeding.
type MarketSeed struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	DeadlineOffset Duration `yaml:"deadline_offset"`
	Rule           RuleSpec `yaml:"rule"`
}

// RuleSpec selects a settlement predicate by type. Parameters not used by
// the chosen type are ignored.
type RuleSpec struct {
	Type             string  `yaml:"type"`              // price-multiple | within-percent
	Factor           float64 `yaml:"factor"`            // price-multiple: YES iff price >= factor * base
	TolerancePercent float64 `yaml:"tolerance_percent"` // within-percent: YES iff |price-base| <= tol% of base
}

type marketsFile struct {
	Markets []MarketSeed `yaml:"markets"`
}

// DefaultMarketSeeds returns the two built-in demo markets.
func DefaultMarketSeeds() []MarketSeed {
	return []MarketSeed{
		{
			ID:             "eth-bull-175",
			Title:          "Will ETH trade at 1.75x its base price by the deadline?",
			DeadlineOffset: Duration(72 * time.Hour),
			Rule:           RuleSpec{Type: "price-multiple", Factor: 1.75},
		},
		{
			ID:             "eth-steady",
			Title:          "Will ETH stay within 0.1% of its base price at the deadline?",
			DeadlineOffset: Duration(168 * time.Hour),
			Rule:           RuleSpec{Type: "within-percent", TolerancePercent: 0.1},
		},
	}
}

// LoadMarketSeeds reads demo-market definitions from a YAML file, falling
// back to the built-in defaults when the file is absent.
func LoadMarketSeeds(path string) ([]MarketSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultMarketSeeds(), nil
		}
		return nil, fmt.Errorf("failed to read markets file: %w", err)
	}

	var f marketsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse markets file: %w", err)
	}
	if len(f.Markets) == 0 {
		return DefaultMarketSeeds(), nil
	}

	for i := range f.Markets {
		if f.Markets[i].ID == "" {
			return nil, fmt.Errorf("markets file: entry %d is missing an id", i)
		}
		if f.Markets[i].DeadlineOffset <= 0 {
			return nil, fmt.Errorf("markets file: market %s needs a positive deadline_offset", f.Markets[i].ID)
		}
	}

	return f.Markets, nil
}
