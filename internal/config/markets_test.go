package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMarketsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMarketSeedsMissingFileUsesDefaults(t *testing.T) {
	seeds, err := LoadMarketSeeds(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	assert.Equal(t, "eth-bull-175", seeds[0].ID)
	assert.Equal(t, 72*time.Hour, time.Duration(seeds[0].DeadlineOffset))
	assert.Equal(t, "price-multiple", seeds[0].Rule.Type)
	assert.Equal(t, 1.75, seeds[0].Rule.Factor)

	assert.Equal(t, "eth-steady", seeds[1].ID)
	assert.Equal(t, "within-percent", seeds[1].Rule.Type)
	assert.Equal(t, 0.1, seeds[1].Rule.TolerancePercent)
}

func TestLoadMarketSeedsParsesYAML(t *testing.T) {
	path := writeMarketsFile(t, `
markets:
  - id: btc-double
    title: Will BTC double?
    deadline_offset: 36h
    rule:
      type: price-multiple
      factor: 2.0
`)

	seeds, err := LoadMarketSeeds(path)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "btc-double", seeds[0].ID)
	assert.Equal(t, 36*time.Hour, time.Duration(seeds[0].DeadlineOffset))
	assert.Equal(t, 2.0, seeds[0].Rule.Factor)
}

func TestLoadMarketSeedsEmptyFileUsesDefaults(t *testing.T) {
	path := writeMarketsFile(t, "markets: []\n")

	seeds, err := LoadMarketSeeds(path)
	require.NoError(t, err)
	assert.Len(t, seeds, 2)
}

func TestLoadMarketSeedsRejectsBadEntries(t *testing.T) {
	path := writeMarketsFile(t, `
markets:
  - title: missing id
    deadline_offset: 1h
`)
	_, err := LoadMarketSeeds(path)
	assert.Error(t, err)

	path = writeMarketsFile(t, `
markets:
  - id: no-offset
    title: never expires
`)
	_, err = LoadMarketSeeds(path)
	assert.Error(t, err)
}

func TestLoadMarketSeedsRejectsBadDuration(t *testing.T) {
	path := writeMarketsFile(t, `
markets:
  - id: bad
    deadline_offset: three days
`)
	_, err := LoadMarketSeeds(path)
	assert.Error(t, err)
}
