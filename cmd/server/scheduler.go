package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/pkg/logger"
)

type expirer interface {
	ClearExpired(ctx context.Context) error
}

// newScheduler registers the cache warm-up job. It runs once at start and
// then on spec; an empty spec keeps only the start-up run.
func newScheduler(ctx context.Context, spec string, svc ports.ExchangeService, store ports.Store, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()

	job := func() {
		if err := svc.Warm(ctx); err != nil {
			log.Error("Failed to warm rate cache", "error", err)
		}
		if e, ok := store.(expirer); ok {
			if err := e.ClearExpired(ctx); err != nil {
				log.Error("Failed to clear expired cache entries", "error", err)
			}
		}
	}

	if spec != "" {
		if _, err := c.AddFunc(spec, job); err != nil {
			return nil, err
		}
		log.Info("Scheduled cache warm-up", "schedule", spec)
	}

	go job()
	return c, nil
}
