package jobs

import (
	"context"

	"prediction-arena/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// MarketCloserJob periodically marks open markets past their deadline as
// closed. The lazy close on the read path stays authoritative; this keeps
// listings fresh between reads.
type MarketCloserJob struct {
	markets *services.MarketService
	cron    *cron.Cron
}

func NewMarketCloserJob(markets *services.MarketService) *MarketCloserJob {
	return &MarketCloserJob{
		markets: markets,
		cron:    cron.New(),
	}
}

// Start schedules the close pass every minute.
func (j *MarketCloserJob) Start() error {
	_, err := j.cron.AddFunc("@every 1m", func() {
		if err := j.markets.CloseExpired(context.Background()); err != nil {
			log.Error().Err(err).Msg("market close pass failed")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	log.Info().Msg("market closer job started")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (j *MarketCloserJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}
