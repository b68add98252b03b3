package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"prediction-arena/internal/pricefeed"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

var fallbackReasons = []string{
	"Market shows consolidation with low volatility.",
	"On-chain metrics suggest steady accumulation.",
	"Technical indicators lean neutral-to-bullish.",
	"Macro headwinds likely priced in.",
}

// NarrativeService turns market data into short prose via the Gemini API.
// It always returns non-empty text: a missing key or upstream failure
// yields a canned fallback instead of an error.
type NarrativeService struct {
	apiKey string
	model  string
	client *http.Client
}

func NewNarrativeService(apiKey, model string) *NarrativeService {
	if apiKey == "" {
		log.Warn().Msg("Gemini key missing, narrative service running in demo mode")
	} else {
		log.Info().Str("model", model).Msg("Gemini narrative service configured")
	}

	return &NarrativeService{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Narrate produces 2-3 sentences of market reasoning for a forecast.
func (s *NarrativeService) Narrate(ctx context.Context, snap pricefeed.Snapshot, forecast decimal.Decimal) string {
	prompt := fmt.Sprintf(
		"ETH current: $%s (24h change %s%%)\nML 7-day forecast: $%s\n\n"+
			"Give 2-3 concise sentences of professional market reasoning for this forecast.",
		snap.CurrentPrice.StringFixed(2), snap.PriceChange24h.StringFixed(2), forecast.StringFixed(2),
	)

	if text, err := s.generate(ctx, prompt); err == nil {
		return text
	} else if s.apiKey != "" {
		log.Error().Err(err).Msg("Gemini narration failed")
	}
	return fallbackReasoning()
}

// Chat answers a free-form prompt, falling back to a fixed reply.
func (s *NarrativeService) Chat(ctx context.Context, prompt string) string {
	if text, err := s.generate(ctx, prompt); err == nil {
		return text
	} else if s.apiKey != "" {
		log.Error().Err(err).Msg("Gemini chat failed")
	}
	return "The model is warming up. Markets move on supply, demand and sentiment; ask again in a moment for a live take."
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *NarrativeService) generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("gemini parse error: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// fallbackReasoning joins two random canned sentences.
func fallbackReasoning() string {
	i := rand.Intn(len(fallbackReasons))
	j := rand.Intn(len(fallbackReasons) - 1)
	if j >= i {
		j++
	}
	return fallbackReasons[i] + " " + fallbackReasons[j]
}
