// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"bidmart/internal/services/penalty"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	ExpiryJobName         = "expire-penalties-and-cooldowns"
	DefaultExpirySchedule = "0 */5 * * * *"
	DefaultJobTimeout     = time.Minute
)

// Expirer flips penalties and cooldowns whose window has passed.
type Expirer interface {
	ExpireRecords(ctx context.Context) (*penalty.ExpiryResult, error)
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	timeout time.Duration
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New registers the expiry sweep on schedule, a six-field cron expression
// with seconds. An empty schedule uses DefaultExpirySchedule.
func New(expirer Expirer, schedule string, logger *zap.Logger) (*Scheduler, error) {
	if expirer == nil {
		panic("expirer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	logger = logger.Named("scheduler")

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		expirer: expirer,
		timeout: DefaultJobTimeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.runExpiry); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to add cron job %s: %w", ExpiryJobName, err)
	}
	logger.Info("job registered", zap.String("job", ExpiryJobName), zap.String("cron", schedule))
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunExpiry performs one sweep immediately.
func (s *Scheduler) RunExpiry(ctx context.Context) (*penalty.ExpiryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.expirer.ExpireRecords(ctx)
	if err != nil {
		s.logger.Error("job failed", zap.String("job", ExpiryJobName), zap.Error(err))
		return nil, err
	}

	s.logger.Info("job completed",
		zap.String("job", ExpiryJobName),
		zap.Int("penalty_sellers", result.PenaltySellers),
		zap.Int("cooldown_sellers", result.CooldownSellers),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

func (s *Scheduler) runExpiry() {
	_, _ = s.RunExpiry(s.ctx)
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
