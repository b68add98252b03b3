package services

import (
	"context"
	"strings"
	"testing"

	"prediction-arena/internal/pricefeed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNarrateFallsBackWithoutKey(t *testing.T) {
	svc := NewNarrativeService("", "gemini-1.5-flash")

	snap := pricefeed.Snapshot{
		Asset:          "ETH",
		CurrentPrice:   decimal.NewFromInt(2500),
		PriceChange24h: decimal.NewFromFloat(1.2),
	}

	text := svc.Narrate(context.Background(), snap, decimal.NewFromInt(2600))
	assert.NotEmpty(t, text)

	// Fallback joins two distinct canned sentences.
	assert.Equal(t, 2, strings.Count(text, "."))
}

func TestChatFallsBackWithoutKey(t *testing.T) {
	svc := NewNarrativeService("", "gemini-1.5-flash")

	reply := svc.Chat(context.Background(), "where is ETH heading?")
	assert.NotEmpty(t, reply)
}

func TestFallbackReasoningNeverRepeatsSentence(t *testing.T) {
	for i := 0; i < 100; i++ {
		text := fallbackReasoning()
		parts := strings.SplitN(text, ". ", 2)
		assert.Len(t, parts, 2)
		assert.NotEqual(t, parts[0]+".", parts[1])
	}
}
