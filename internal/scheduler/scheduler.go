package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mawucano-design/diagnostico-forrajero/internal/config"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/analysis"
)

// Scheduler re-analyzes every monitored paddock on the configured cadence so
// that paddock condition is tracked over time without manual requests.
type Scheduler struct {
	cron        *cron.Cron
	analysisSvc *analysis.Service
	cfg         config.MonitoringConfig
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.MonitoringConfig, analysisSvc *analysis.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:        cron.New(cron.WithLocation(location)),
		analysisSvc: analysisSvc,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers the monitoring job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runMonitoring); err != nil {
		s.logger.Error("failed to schedule paddock monitoring", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runMonitoring() {
	s.logger.Info("running scheduled paddock monitoring")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	paddocks, err := s.analysisSvc.ListPaddocks(ctx)
	if err != nil {
		s.logger.Error("failed to list monitored paddocks", zap.Error(err))
		return
	}
	if len(paddocks) == 0 {
		s.logger.Info("no monitored paddocks registered")
		return
	}

	asOf := time.Now()
	for _, paddock := range paddocks {
		record, err := s.analysisSvc.RunForPaddock(ctx, paddock, asOf)
		if err != nil {
			s.logger.Error("scheduled analysis failed",
				zap.String("paddock_id", paddock.ID),
				zap.String("paddock", paddock.Name),
				zap.Error(err))
			continue
		}

		s.logger.Info("scheduled analysis completed",
			zap.String("paddock_id", paddock.ID),
			zap.String("paddock", paddock.Name),
			zap.String("analysis_id", record.ID),
			zap.String("condition", record.Condition))
	}
}
