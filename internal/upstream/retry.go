package upstream

import (
	"context"
	"emd/internal/providers"
	"emd/internal/structures"
	"time"
)

const backoffStep = time.Second

// RetryingFetcher wraps a fetch in a bounded, linear-backoff retry loop.
// It is meant for low-frequency bootstrap calls where availability matters
// more than latency. Retries are strictly sequential; the attempt budget is
// never exceeded.
type RetryingFetcher struct {
	maxAttempts int
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface

	// Sleep is swapped out in tests.
	Sleep func(time.Duration)
}

func NewRetryingFetcher(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *RetryingFetcher {
	return &RetryingFetcher{
		maxAttempts: conf.Upstream.BootstrapAttempts,
		logger:      logger,
		metrics:     metrics,
		Sleep:       time.Sleep,
	}
}

// Do runs fn up to the attempt budget, waiting attempt*1s between failures.
// The final attempt's error propagates to the caller.
func (r *RetryingFetcher) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == r.maxAttempts {
			break
		}
		r.logger.Warnf(providers.TypeUpstream, "%s attempt %d/%d failed: %s", name, attempt, r.maxAttempts, err)
		r.metrics.IncUpstreamRetries(name)
		r.Sleep(time.Duration(attempt) * backoffStep)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
