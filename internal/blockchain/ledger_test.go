package blockchain

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func TestRecordSimulatesWithoutCredentials(t *testing.T) {
	recorder := NewLedgerRecorder("http://localhost:8545", zeroAddress, "", 0)

	hash := recorder.Record(context.Background(),
		"0x74232704659A37D66D6a334eF3E087eF6c139414",
		decimal.NewFromInt(2600), decimal.NewFromFloat(2612.5))

	assert.Regexp(t, txHashPattern, hash)
}

func TestRecordSimulatedHashesDiffer(t *testing.T) {
	recorder := NewLedgerRecorder("", "", "", 0)
	ctx := context.Background()
	user := "0x74232704659A37D66D6a334eF3E087eF6c139414"

	first := recorder.Record(ctx, user, decimal.NewFromInt(2600), decimal.NewFromInt(2612))
	second := recorder.Record(ctx, user, decimal.NewFromInt(2600), decimal.NewFromInt(2612))

	assert.NotEqual(t, first, second, "wall clock must vary the simulated id")
}
