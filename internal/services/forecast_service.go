package services

import (
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	trainingDays  = 100
	forecastFloor = 100.0
)

// ForecastService produces a noisy point forecast from a linear trend
// fitted once at construction over a synthetic price series. It is a toy
// model: the output only needs to look plausible.
type ForecastService struct {
	slope     float64
	intercept float64
}

// NewForecastService fits an ordinary least squares line to a 100-day
// synthetic series (2200 + 4/day plus gaussian noise).
func NewForecastService() *ForecastService {
	xs := make([]float64, trainingDays)
	ys := make([]float64, trainingDays)
	for i := 0; i < trainingDays; i++ {
		xs[i] = float64(i)
		ys[i] = 2200 + 4*float64(i) + rand.NormFloat64()*50
	}

	slope, intercept := fitLine(xs, ys)
	log.Info().Float64("slope", slope).Float64("intercept", intercept).
		Msg("forecast model fitted")

	return &ForecastService{slope: slope, intercept: intercept}
}

// Predict extrapolates the fitted trend daysAhead days past the training
// window, with bounded random perturbation and a positive floor.
func (s *ForecastService) Predict(daysAhead int) decimal.Decimal {
	day := float64(trainingDays + daysAhead)
	value := s.intercept + s.slope*day
	value += rand.Float64()*200 - 100
	if value < forecastFloor {
		value = forecastFloor
	}
	return decimal.NewFromFloat(value).Round(2)
}

// fitLine computes the closed-form least squares slope and intercept.
func fitLine(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
