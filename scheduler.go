package tablexport

import (
	"context"
	"runtime"
)

// Scheduler yields control between batches of work so a long export does not
// monopolize its thread. In a browser-hosted runtime YieldNow maps to a
// zero-delay deferred callback; the default implementation yields the
// goroutine's processor and honors context cancellation.
type Scheduler interface {
	YieldNow(ctx context.Context) error
}

type goschedScheduler struct{}

func (goschedScheduler) YieldNow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}

// NopScheduler never yields. Useful for hosts that manage scheduling
// themselves and in tests.
type NopScheduler struct{}

func (NopScheduler) YieldNow(ctx context.Context) error { return ctx.Err() }
