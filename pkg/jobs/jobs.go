// Package jobs runs recurring jobs of monthly goals as loops.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/configs/server"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/goal"
	"github.com/opst/todofab/pkg/domain/todofab"
	tokendb "github.com/opst/todofab/pkg/domain/token/db"
	"github.com/opst/todofab/pkg/jobs/cleanup"
	"github.com/opst/todofab/pkg/jobs/generation"
	"github.com/opst/todofab/pkg/jobs/stats"
	"github.com/opst/todofab/pkg/loop"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/metrics"
	"github.com/opst/todofab/pkg/utils/echoutil"
)

// Wrapper for monitoring loop tasks
//
//	Log the start and end of each time a task is executed, and record the cycle as metrics.
func monitor[T any](logger *log.Logger, m *metrics.Metrics, name string, task loop.Task[T]) loop.Task[T] {
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		counter += 1
		timestamp := time.Now()

		logger.Debugf("task start: #0x%X", counter)

		defer func() {
			took := time.Since(timestamp)
			m.Cycle(name, took, next.Err())
			if err := next.Err(); err != nil {
				logger.Errorf("task end: #0x%X (takes %s): %s", counter, took, next)
				return
			}
			logger.Infof(
				"task end: #0x%X (takes %s): %s\n with value = %+v",
				counter, took, next, ret,
			)
		}()

		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type Manifest struct {
	// Policy for the looping
	Policy recurring.Policy

	// Timeout per cycle. Zero means no timeout.
	Timeout time.Duration

	// Goal-generated tasks Done for this months are purged by the cleanup loop.
	RetentionMonths int
}

// ManifestOf builds a manifest of the loop type from the configuration.
func ManifestOf(conf *server.LoopsConfig, typ domain.LoopType) (Manifest, error) {
	m := Manifest{Timeout: conf.Timeout(), RetentionMonths: conf.RetentionMonths()}
	switch typ {
	case domain.GoalGenerationLoop:
		m.Policy = conf.GoalGeneration()
	case domain.GoalStatsLoop:
		m.Policy = conf.GoalStats()
	case domain.GoalCleanupLoop:
		m.Policy = conf.GoalCleanup()
	default:
		return Manifest{}, fmt.Errorf("%w: %s", domain.ErrUnknownLoopType, typ)
	}
	return m, nil
}

func (m Manifest) options() []loop.LoopOption {
	if m.Timeout <= 0 {
		return nil
	}
	return []loop.LoopOption{loop.WithTimeout(m.Timeout)}
}

// Start starts the loop of the type, and blocks until the loop stops.
//
// # Returns
//
// - error: error breaking the loop, ctx.Err() if ctx is done,
// or domain.ErrUnknownLoopType for unknown types.
func Start(
	ctx context.Context,
	logger *log.Logger,
	todo todofab.Todofab,
	m *metrics.Metrics,
	typ domain.LoopType,
	manifest Manifest,
) error {
	sched := todo.Goal().Scheduler()
	switch typ {
	case domain.GoalGenerationLoop:
		return StartGenerationLoop(ctx, logger, sched, m, manifest)
	case domain.GoalStatsLoop:
		return StartStatsLoop(ctx, logger, sched, m, manifest)
	case domain.GoalCleanupLoop:
		return StartCleanupLoop(ctx, logger, sched, todo.Token().Database(), m, manifest)
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownLoopType, typ)
}

// RunOnce runs a cycle of the loop of the type.
func RunOnce(
	ctx context.Context,
	logger *log.Logger,
	todo todofab.Todofab,
	m *metrics.Metrics,
	typ domain.LoopType,
	retentionMonths int,
) error {
	return Start(ctx, logger, todo, m, typ, Manifest{
		Policy:          recurring.UntilError(recurring.Backlog()),
		RetentionMonths: retentionMonths,
	})
}

func prefixed(logger *log.Logger, typ domain.LoopType) *log.Logger {
	return echoutil.NewLogger(logger, fmt.Sprintf("[%s loop]", typ))
}

func StartGenerationLoop(
	ctx context.Context,
	logger *log.Logger,
	sched *goal.Scheduler,
	m *metrics.Metrics,
	manifest Manifest,
) error {
	l := prefixed(logger, domain.GoalGenerationLoop)
	_, err := loop.Start(
		ctx, generation.Seed(),
		monitor(
			l, m, domain.GoalGenerationLoop.String(),
			generation.Task(sched, m, l).Applied(manifest.Policy),
		),
		manifest.options()...,
	)
	return err
}

func StartStatsLoop(
	ctx context.Context,
	logger *log.Logger,
	sched *goal.Scheduler,
	m *metrics.Metrics,
	manifest Manifest,
) error {
	l := prefixed(logger, domain.GoalStatsLoop)
	_, err := loop.Start(
		ctx, stats.Seed(),
		monitor(
			l, m, domain.GoalStatsLoop.String(),
			stats.Task(sched, m, l).Applied(manifest.Policy),
		),
		manifest.options()...,
	)
	return err
}

func StartCleanupLoop(
	ctx context.Context,
	logger *log.Logger,
	sched *goal.Scheduler,
	dbtoken tokendb.TokenInterface,
	m *metrics.Metrics,
	manifest Manifest,
) error {
	l := prefixed(logger, domain.GoalCleanupLoop)
	_, err := loop.Start(
		ctx, cleanup.Seed(),
		monitor(
			l, m, domain.GoalCleanupLoop.String(),
			cleanup.Task(sched, dbtoken, manifest.RetentionMonths, m, l).Applied(manifest.Policy),
		),
		manifest.options()...,
	)
	return err
}
