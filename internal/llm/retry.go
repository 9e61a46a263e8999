package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff.
// Invalid responses are retried once since a second sample often
// validates.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		retriedShape bool
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var inv *ErrInvalidResponse
		switch {
		case errors.As(err, &inv) && !retriedShape:
			retriedShape = true
		case transient(err):
		default:
			return nil, err
		}

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt, err)):
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	// ±20% jitter
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
