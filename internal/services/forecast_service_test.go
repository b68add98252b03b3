package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPredictStaysNearTrend(t *testing.T) {
	svc := NewForecastService()

	// Trend is ~2200 + 4/day; at day 107 that is ~2628. The fit noise and
	// the per-call perturbation stay well inside a few hundred dollars.
	for i := 0; i < 50; i++ {
		pred := svc.Predict(7)
		f, _ := pred.Float64()
		assert.Greater(t, f, 2000.0)
		assert.Less(t, f, 3300.0)
	}
}

func TestPredictAppliesFloor(t *testing.T) {
	// A collapsing trend must never forecast below the floor.
	svc := &ForecastService{slope: -1000, intercept: 0}
	pred := svc.Predict(7)
	assert.True(t, pred.Equal(decimal.NewFromInt(100)), "got %s", pred)
}

func TestPredictVariesBetweenCalls(t *testing.T) {
	svc := NewForecastService()

	first := svc.Predict(7)
	for i := 0; i < 20; i++ {
		if !svc.Predict(7).Equal(first) {
			return
		}
	}
	t.Fatal("forecast never varied across calls")
}
