package runner

import (
	"context"
	"time"
)

// minPollInterval is the floor applied to every wait strategy so misconfigured
// delays cannot hammer the platform.
const minPollInterval = 100 * time.Millisecond

// WaitStrategy decides how long to pause between status polls. attempt is
// 1-based within a turn. Implementations must honor ctx cancellation.
type WaitStrategy interface {
	Wait(ctx context.Context, attempt int) error
}

// FixedDelay waits the same duration between every poll.
type FixedDelay struct {
	Delay time.Duration
}

func (f FixedDelay) Wait(ctx context.Context, attempt int) error {
	return sleep(ctx, f.Delay)
}

// CappedBackoff grows the delay geometrically from Initial up to Max.
// A Factor below 1 behaves as 2.
type CappedBackoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

func (b CappedBackoff) Wait(ctx context.Context, attempt int) error {
	return sleep(ctx, b.delayFor(attempt))
}

func (b CappedBackoff) delayFor(attempt int) time.Duration {
	factor := b.Factor
	if factor < 1 {
		factor = 2
	}
	d := float64(b.Initial)
	for i := 1; i < attempt; i++ {
		d *= factor
		if time.Duration(d) >= b.Max {
			return b.Max
		}
	}
	if time.Duration(d) > b.Max {
		return b.Max
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d < minPollInterval {
		d = minPollInterval
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
