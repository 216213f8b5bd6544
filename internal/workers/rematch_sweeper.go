package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/gigmatch/internal/matching"
)

// Sweeper recomputes every active job. matching.Engine satisfies it.
type Sweeper interface {
	RecomputeAll(ctx context.Context) (matching.Result, error)
}

// RematchSweeper periodically re-derives all matches as a consistency net
// behind the event triggers.
type RematchSweeper struct {
	Engine   Sweeper
	Schedule string // cron spec, e.g. "@every 6h"
	Timeout  time.Duration
	Logger   *logrus.Logger

	cron *cron.Cron
}

func (s *RematchSweeper) Start(ctx context.Context) error {
	if s.Engine == nil {
		return errors.New("RematchSweeper missing dependency: Engine must be set")
	}
	if s.Schedule == "" {
		return errors.New("RematchSweeper: empty schedule")
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Minute
	}
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	cl := cron.PrintfLogger(s.Logger)
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(s.Schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.Logger.WithField("schedule", s.Schedule).Info("rematch sweeper started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *RematchSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *RematchSweeper) RunOnce(ctx context.Context) (matching.Result, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	start := time.Now()
	res, err := s.Engine.RecomputeAll(ctx)
	entry := s.Logger.WithFields(logrus.Fields{
		"scored":      res.Scored,
		"upserted":    res.Upserted,
		"deleted":     res.Deleted,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("rematch sweep failed")
		return res, err
	}
	entry.Info("rematch sweep complete")
	return res, nil
}
