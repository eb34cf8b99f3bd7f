package service

import (
	"context"
	"time"

	"github.com/voyagen/tvstreams/internal/cache"
)

const (
	dequeueTimeout = 5 * time.Second
	dequeueBackoff = 2 * time.Second
)

// RunRefreshWorker reloads the directory for each job on the Redis refresh
// queue. It returns when ctx is cancelled.
func (r *Resolver) RunRefreshWorker(ctx context.Context, q *cache.Redis) {
	r.log.Info().Msg("refresh worker started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("refresh worker stopping")
			return
		default:
		}

		job, err := cache.Dequeue(ctx, q, cache.RefreshQueue, dequeueTimeout)
		if err != nil {
			r.log.Error().Err(err).Msg("dequeue refresh job")
			select {
			case <-ctx.Done():
			case <-time.After(dequeueBackoff):
			}
			continue
		}
		if job == nil {
			continue
		}

		r.log.Info().Str("job_id", job.ID).Str("reason", job.Reason).
			Dur("queued_for", time.Since(job.RequestedAt)).Msg("processing refresh job")
		r.LoadChannels(ctx)
	}
}

// RunPeriodic reloads the directory every interval until ctx is cancelled.
func (r *Resolver) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.LoadChannels(ctx)
		}
	}
}
