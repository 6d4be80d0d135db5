package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/skoolgrab/scanner/internal/store"
	"github.com/skoolgrab/scanner/pkg/logger"
)

// Janitor periodically sweeps expired snapshots out of the in-memory store.
// The redis store expires keys on its own, so the janitor only runs when the
// memory store is in use.
type Janitor struct {
	snapshots *store.Memory
	maxAge    time.Duration
	scheduler gocron.Scheduler
}

func NewJanitor(snapshots *store.Memory, maxAge time.Duration) (*Janitor, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Janitor{
		snapshots: snapshots,
		maxAge:    maxAge,
		scheduler: s,
	}, nil
}

func (j *Janitor) Start() error {
	log := logger.Log

	interval := j.maxAge / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	_, err := j.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if evicted := j.snapshots.Prune(j.maxAge); evicted > 0 {
				log.Debug().Int("evicted", evicted).Msg("stale snapshots pruned")
			}
		}),
	)
	if err != nil {
		return err
	}

	j.scheduler.Start()
	log.Info().Dur("interval", interval).Dur("max_age", j.maxAge).Msg("snapshot janitor started")
	return nil
}

func (j *Janitor) Stop() {
	if err := j.scheduler.Shutdown(); err != nil {
		logger.Log.Error().Err(err).Msg("janitor shutdown error")
	}
}
