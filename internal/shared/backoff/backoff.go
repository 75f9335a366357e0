package backoff

import (
	"math/rand/v2"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
)

type (
	// Strategy returns how long to wait before the next retry given the
	// number of consecutive failures so far.
	Strategy interface {
		Backoff(retries int) time.Duration
	}

	// Exponential grows the delay by the multiplier up to the max delay, with jitter.
	Exponential struct {
		config config.BackoffConfig
		jitter func() float64
	}

	// Constant always waits the same amount of time.
	Constant time.Duration
)

func NewExponentialStrategy(cfg config.BackoffConfig) Exponential {
	return Exponential{
		config: cfg,
		jitter: rand.Float64,
	}
}

func (bc Exponential) Backoff(retries int) time.Duration {
	if retries <= 0 {
		return bc.config.BaseDelay
	}

	delay, maxDelay := float64(bc.config.BaseDelay), float64(bc.config.MaxDelay)
	for delay < maxDelay && retries > 0 {
		delay *= bc.config.Multiplier
		retries--
	}

	if delay > maxDelay {
		delay = maxDelay
	}

	delay *= 1 + bc.config.Jitter*(bc.jitter()*2-1)
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

func (c Constant) Backoff(int) time.Duration {
	return time.Duration(c)
}
