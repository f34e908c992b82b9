package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a cycle.
type Next struct {
	// if not nil, breaks with error
	err error

	// if quit == true and err == nil, breaks without error
	quit bool

	// otherwise, continue loop with interval.
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}
	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Interval is the sleep before the next cycle. It is 0 for Break.
func (n Next) Interval() time.Duration {
	if n.quit {
		return 0
	}
	return n.interval
}

// IsBreak returns true if the loop stops after this cycle.
func (n Next) IsBreak() bool {
	return n.quit
}

// Err is the error the loop breaks with, if any.
func (n Next) Err() error {
	return n.err
}

// continue loop.
//
// args:
//
// - interval: sleep before starting next cycle. Negative interval is treated as 0.
func Continue(interval time.Duration) Next {
	if interval < 0 {
		interval = 0
	}
	return Next{interval: interval}
}

// break loop.
//
// args:
//
// - err: If you break loop with error, set non nil value.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task is a body of loop.
//
// It receives the value returned from the last cycle (or the initial value),
// and returns the value for the next cycle with Next.
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task repeatedly until it breaks or ctx is done.
//
// Each cycle calls task(ctx, last value).
// When task returns Continue(d), the next cycle starts after d.
// When task returns Break(err), Start returns the value and err.
// Zero value of Next equals Continue(0).
//
// Example, count 1 to 10:
//
//	Start(ctx, 1, func(_ context.Context, value int) (int, Next) {
//		value += 1
//		if 10 <= value {
//			return value, Break(nil)
//		}
//		return value, Continue(0)
//	})
//
// Returns
//
// - T: the value task returned last. It is returned even with non-nil error.
//
// - error: error in Break(error), or ctx.Err() when ctx is done while waiting.
func Start[T any](ctx context.Context, init T, task Task[T], options ...LoopOption) (T, error) {
	select {
	case <-ctx.Done():
		return init, ctx.Err()
	default:
	}

	value := init
	for {
		lc := &loopConfig{ctx: ctx}
		for _, opt := range options {
			lc = opt(lc)
		}

		v, n := func() (T, Next) {
			if lc.deferred != nil {
				defer lc.deferred()
			}
			return task(lc.ctx, value)
		}()

		if n.err != nil {
			return v, n.err
		} else if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			// shutting down comes first.
			if !timer.Stop() {
				<-timer.C
			}
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

type loopConfig struct {
	ctx      context.Context
	deferred func()
}

type LoopOption func(*loopConfig) *loopConfig

// set timeout per cycle.
//
// this timeout is set on context.Context passed to task.
func WithTimeout(d time.Duration) LoopOption {
	return func(lc *loopConfig) *loopConfig {
		ctx, cancel := context.WithTimeout(lc.ctx, d)
		return &loopConfig{
			ctx: ctx,
			deferred: func() {
				if lc.deferred != nil {
					defer lc.deferred()
				}
				cancel()
			},
		}
	}
}
