package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"molttactics/internal/logger"
)

type Ticker interface {
	Tick(ctx context.Context) int
}

type Evicter interface {
	EvictFinished(cutoff time.Time) []string
}

type Config struct {
	TurnInterval time.Duration
	// Retention is how long a finished, archived match stays in memory.
	Retention     time.Duration
	EvictInterval time.Duration
	Now           func() time.Time
}

// Scheduler drives turn resolution and eviction of finished matches. Jobs
// never overlap themselves; a slow tick delays the next one.
type Scheduler struct {
	s gocron.Scheduler
}

func New(ctx context.Context, turns Ticker, hub Evicter, cfg Config) (*Scheduler, error) {
	if cfg.TurnInterval <= 0 {
		return nil, fmt.Errorf("turn interval must be positive")
	}
	if cfg.EvictInterval <= 0 {
		cfg.EvictInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.TurnInterval),
		gocron.NewTask(func() {
			if n := turns.Tick(ctx); n > 0 {
				logger.Debug("tick", "resolved", n)
			}
		}),
		gocron.WithName("resolve-turns"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule turns: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.EvictInterval),
		gocron.NewTask(func() {
			evicted := hub.EvictFinished(cfg.Now().Add(-cfg.Retention))
			if len(evicted) > 0 {
				logger.Info("evicted finished matches", "count", len(evicted), "match_ids", evicted)
			}
		}),
		gocron.WithName("evict-finished"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule eviction: %w", err)
	}
	return &Scheduler{s: s}, nil
}

func (s *Scheduler) Start() { s.s.Start() }

// Shutdown stops scheduling and waits for running jobs.
func (s *Scheduler) Shutdown() error { return s.s.Shutdown() }
