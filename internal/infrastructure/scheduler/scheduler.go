package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// JobFunc is a periodic background task.
type JobFunc func(ctx context.Context) error

type Scheduler struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
	jobs      int
}

func New(log *zap.Logger) (*Scheduler, error) {
	log = log.With(zap.String("component", "scheduler"))

	s, err := gocron.NewScheduler(gocron.WithLogger(&gocronLogger{log: log.Sugar()}))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, log: log}, nil
}

// Every registers fn to run immediately and then every interval. Overlapping
// runs are skipped.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, fn JobFunc) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			start := time.Now()
			if err := fn(ctx); err != nil {
				s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
				return
			}
			s.log.Debug("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.jobs++
	s.log.Info("job scheduled", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.scheduler.Start()
	s.log.Info("scheduler started", zap.Int("jobs", s.jobs))

	<-ctx.Done()

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	s.log.Info("scheduler stopped")
	return nil
}

type gocronLogger struct {
	log *zap.SugaredLogger
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.log.Debugw(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any) { l.log.Infow(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any) { l.log.Warnw(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.log.Errorw(msg, args...) }
