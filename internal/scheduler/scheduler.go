package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/config"
	"github.com/mamadbah2/pantry/internal/service/alerts"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	alertsSvc *alerts.Service
	cfg       config.AlertsConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone. An unknown timezone falls back to the host's local time.
func NewScheduler(cfg config.AlertsConfig, alertsSvc *alerts.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		alertsSvc: alertsSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the low-stock digest job and starts the cron loop. Without
// a webhook URL there is nowhere to deliver, so nothing is scheduled.
func (s *Scheduler) Start() {
	if s.cfg.WebhookURL == "" {
		s.logger.Info("no alert webhook configured, digest job disabled")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendLowStockDigest); err != nil {
		s.logger.Error("failed to schedule low-stock digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendLowStockDigest() {
	s.logger.Info("dispatching low-stock digests")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.alertsSvc.DispatchAll(ctx); err != nil {
		s.logger.Error("low-stock digest run failed", zap.Error(err))
		return
	}
	s.logger.Info("low-stock digest run finished")
}
