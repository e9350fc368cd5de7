package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
	"molttactics/internal/domain/rating"
	"molttactics/internal/logger"
)

// RatingsLockKey guards every read-modify-write of rating records.
const RatingsLockKey = "ratings"

var errAlreadyFinalized = errors.New("match already finalized")

type FinalizerDeps struct {
	Ratings   ports.RatingRepository
	Summaries ports.MatchSummaryRepository
	Tx        ports.TxManager
	Locker    ports.Locker
	Archive   ports.ReplayArchive
	Metrics   ports.TurnMetrics
	// OnArchived is called once a replay is durable in the archive.
	OnArchived func(matchID string)

	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
}

// Finalizer applies ratings and persists finished matches. Settlements are
// processed one at a time by Run, each retried with exponential backoff.
type Finalizer struct {
	deps  FinalizerDeps
	queue chan arena.Settlement
}

func NewFinalizer(deps FinalizerDeps) *Finalizer {
	if deps.QueueSize <= 0 {
		deps.QueueSize = 64
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = 6
	}
	if deps.Backoff <= 0 {
		deps.Backoff = 200 * time.Millisecond
	}
	return &Finalizer{deps: deps, queue: make(chan arena.Settlement, deps.QueueSize)}
}

func (f *Finalizer) Enqueue(ctx context.Context, s arena.Settlement) error {
	select {
	case f.queue <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is cancelled, then finishes whatever is
// already queued before returning.
func (f *Finalizer) Run(ctx context.Context) {
	for {
		select {
		case s := <-f.queue:
			f.finalizeWithRetry(ctx, s)
		case <-ctx.Done():
			f.drain(context.WithoutCancel(ctx))
			return
		}
	}
}

func (f *Finalizer) drain(ctx context.Context) {
	for {
		select {
		case s := <-f.queue:
			f.finalizeWithRetry(ctx, s)
		default:
			return
		}
	}
}

func (f *Finalizer) finalizeWithRetry(ctx context.Context, s arena.Settlement) {
	work := context.WithoutCancel(ctx)
	delay := f.deps.Backoff
	for attempt := 1; attempt <= f.deps.MaxAttempts; attempt++ {
		err := f.Finalize(work, s)
		if f.deps.Metrics != nil {
			f.deps.Metrics.RecordFinalization(err)
		}
		if err == nil {
			return
		}
		if attempt == f.deps.MaxAttempts {
			logger.Error("finalization abandoned", "match_id", s.MatchID, "attempts", attempt, "error", err)
			return
		}
		logger.Warn("finalization failed, retrying", "match_id", s.MatchID, "attempt", attempt, "backoff", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// Shutdown: keep retrying without waiting out the full backoff.
		}
		delay *= 2
	}
}

// Finalize applies the settlement's ratings and summary in one transaction
// under the ratings lock, then archives the replay. A settlement whose
// summary already exists skips straight to archiving, so retries are safe.
func (f *Finalizer) Finalize(ctx context.Context, s arena.Settlement) error {
	if f.deps.Locker != nil {
		unlock, err := f.deps.Locker.Lock(ctx, RatingsLockKey)
		if err != nil {
			return fmt.Errorf("acquire ratings lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("release ratings lock", "error", err)
			}
		}()
	}

	err := f.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		return f.applyRatings(ctx, s)
	})
	switch {
	case errors.Is(err, errAlreadyFinalized):
		logger.Info("ratings already applied", "match_id", s.MatchID)
	case err != nil:
		return err
	}

	if f.deps.Archive == nil {
		return nil
	}
	if err := f.deps.Archive.Store(ctx, s.Replay); err != nil {
		return fmt.Errorf("store replay: %w", err)
	}
	if f.deps.OnArchived != nil {
		f.deps.OnArchived(s.MatchID)
	}
	logger.Info("match finalized", "match_id", s.MatchID, "winner", s.Winner, "participants", len(s.Participants))
	return nil
}

func (f *Finalizer) applyRatings(ctx context.Context, s arena.Settlement) error {
	season := rating.Season(s.FinishedAt)
	summary := ports.MatchSummary{
		MatchID: s.MatchID,
		Seed:    s.Seed,
		EndedAt: s.FinishedAt.UnixMilli(),
		Season:  season,
	}
	if s.HasWinner() {
		w := s.Winner
		summary.Winner = &w
	}
	if err := f.deps.Summaries.AppendMatchSummary(ctx, summary); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return errAlreadyFinalized
		}
		return fmt.Errorf("append match summary: %w", err)
	}

	allTime, err := f.deps.Ratings.LoadRatings(ctx, s.Participants...)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	touched := rating.ApplyReputation(allTime, reputationDeltas(s.Reputation))
	rating.Merge(allTime, touched)
	rating.Merge(touched, rating.Apply(s.Participants, s.Winner, allTime))
	if err := f.deps.Ratings.SaveRatings(ctx, touched); err != nil {
		return fmt.Errorf("save ratings: %w", err)
	}

	seasonal, err := f.deps.Ratings.LoadSeasonRatings(ctx, season, s.Participants...)
	if err != nil {
		return fmt.Errorf("load season ratings: %w", err)
	}
	if err := f.deps.Ratings.SaveSeasonRatings(ctx, season, rating.Apply(s.Participants, s.Winner, seasonal)); err != nil {
		return fmt.Errorf("save season ratings: %w", err)
	}
	return nil
}

func reputationDeltas(in map[string]arena.Reputation) map[string]rating.Reputation {
	out := make(map[string]rating.Reputation, len(in))
	for id, r := range in {
		out[id] = rating.Reputation{Trust: r.Trust, Honors: r.Honors, Betrayals: r.Betrayals}
	}
	return out
}
