package scheduler

import (
	"context"
	"time"

	"github.com/ledgerlinelabs/ledgerline/internal/config"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultRunInterval = 24 * time.Hour

// Scheduler drives the recurring generation run on a fixed interval. The
// run itself is idempotent for a given day, so overlapping ticks after a
// slow run are harmless.
type Scheduler struct {
	log *zap.Logger
	cfg *config.Config

	recurringSvc recurringdomain.Service

	stop chan struct{}
	done chan struct{}
}

type SchedulerParam struct {
	fx.In

	Log          *zap.Logger
	Config       *config.Config
	RecurringSvc recurringdomain.Service
}

func NewScheduler(p SchedulerParam) *Scheduler {
	return &Scheduler{
		log:          p.Log.Named("scheduler"),
		cfg:          p.Config,
		recurringSvc: p.RecurringSvc,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (s *Scheduler) interval() time.Duration {
	parsed, err := time.ParseDuration(s.cfg.RecurringRunInterval)
	if err != nil || parsed <= 0 {
		s.log.Warn("invalid recurring run interval, using default",
			zap.String("value", s.cfg.RecurringRunInterval),
			zap.Duration("default", defaultRunInterval),
		)
		return defaultRunInterval
	}
	return parsed
}

func (s *Scheduler) Start() {
	go s.loop(s.interval())
}

func (s *Scheduler) Stop(ctx context.Context) error {
	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("recurring scheduler started", zap.Duration("interval", interval))

	s.runOnce()
	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stop:
			s.log.Info("recurring scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()

	result, err := s.recurringSvc.Generate(ctx, time.Time{})
	if err != nil {
		s.log.Error("scheduled recurring run failed", zap.Error(err))
		return
	}

	s.log.Info("scheduled recurring run finished",
		zap.Time("as_of", result.AsOf),
		zap.Int("generated", result.Generated()),
		zap.Int("skipped", len(result.Skipped)),
	)
}

var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(registerScheduler),
)

func registerScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
