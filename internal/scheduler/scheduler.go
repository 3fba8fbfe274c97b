package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/config"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/repository/sheets"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/archive"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/forecast"
)

// Scheduler runs the day-boundary rollover. The job shares its implementation
// with the admin HTTP trigger; both call the same idempotent ArchiveAndRoll,
// so an overlap or manual rerun cannot double-archive.
type Scheduler struct {
	cron        *cron.Cron
	archiveSvc  *archive.Service
	forecastSvc *forecast.Service
	exportRepo  sheets.Repository
	cfg         config.RolloverConfig
	location    *time.Location
	logger      *zap.Logger
}

// NewScheduler creates a scheduler instance. exportRepo may be nil when the
// sheet export is not configured.
func NewScheduler(cfg config.RolloverConfig, archiveSvc *archive.Service, forecastSvc *forecast.Service, exportRepo sheets.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.UTC
	}

	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:        c,
		archiveSvc:  archiveSvc,
		forecastSvc: forecastSvc,
		exportRepo:  exportRepo,
		cfg:         cfg,
		location:    location,
		logger:      logger,
	}
}

// Start registers and starts the rollover job.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runRollover)
	if err != nil {
		s.logger.Error("failed to schedule daily rollover", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runRollover closes out the day that just ended, refreshes today's demand
// figure and exports the archived row when an export sink is configured.
func (s *Scheduler) runRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	closedDay := time.Now().In(s.location).AddDate(0, 0, -1)
	s.logger.Info("running daily rollover", zap.String("date", models.DateKey(closedDay)))

	result, err := s.archiveSvc.ArchiveAndRoll(ctx, closedDay)
	if err != nil {
		s.logger.Error("daily rollover failed", zap.Error(err))
		return
	}
	if !result.Archived {
		s.logger.Info("rollover skipped", zap.String("reason", result.Reason))
	}

	if _, err := s.forecastSvc.Recompute(ctx); err != nil {
		s.logger.Error("demand recompute failed", zap.Error(err))
	}

	if result.Archived && s.exportRepo != nil {
		s.exportDayClose(ctx, closedDay)
	}
}

func (s *Scheduler) exportDayClose(ctx context.Context, closedDay time.Time) {
	records, err := s.archiveSvc.List(ctx, closedDay, closedDay)
	if err != nil || len(records) == 0 {
		s.logger.Error("could not load archived day for export", zap.Error(err))
		return
	}

	if err := s.exportRepo.AppendDayClose(ctx, records[0]); err != nil {
		s.logger.Error("day close export failed", zap.Error(err))
	} else {
		s.logger.Info("day close exported", zap.String("date", records[0].Date))
	}
}
