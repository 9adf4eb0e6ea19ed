package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse-tracker/internal/config"
)

const (
	refreshTimeout = time.Minute
	exportTimeout  = 2 * time.Minute
)

// Refresher reloads the reference data.
type Refresher interface {
	Load(ctx context.Context) error
}

// Exporter copies the current inventory snapshot somewhere durable.
type Exporter interface {
	ExportInventory(ctx context.Context, at time.Time) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	exporter  Exporter
	cfg       config.SchedulerConfig
	location  *time.Location
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter may be nil, in which
// case no export job is registered.
func NewScheduler(cfg config.SchedulerConfig, refresher Refresher, exporter Exporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
		}
		location = loc
	}

	// Standard five-field cron expressions, evaluated in the configured zone.
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:      c,
		refresher: refresher,
		exporter:  exporter,
		cfg:       cfg,
		location:  location,
		logger:    logger,
	}, nil
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.cfg.RefreshSchedule != "" && s.refresher != nil {
		if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refresh); err != nil {
			return fmt.Errorf("schedule inventory refresh %q: %w", s.cfg.RefreshSchedule, err)
		}
		s.logger.Info("inventory refresh scheduled", zap.String("schedule", s.cfg.RefreshSchedule))
	}

	if s.cfg.ExportSchedule != "" && s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportSchedule, s.export); err != nil {
			return fmt.Errorf("schedule inventory export %q: %w", s.cfg.ExportSchedule, err)
		}
		s.logger.Info("inventory export scheduled", zap.String("schedule", s.cfg.ExportSchedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.Load(ctx); err != nil {
		s.logger.Warn("scheduled inventory refresh incomplete", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled inventory refresh done")
}

func (s *Scheduler) export() {
	s.logger.Info("exporting inventory snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	rows, err := s.exporter.ExportInventory(ctx, time.Now().In(s.location))
	if err != nil {
		s.logger.Error("failed to export inventory", zap.Error(err))
		return
	}
	s.logger.Info("inventory export finished", zap.Int("rows", rows))
}
