package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/incrementum/incrementum-api/internal/config"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
	"github.com/incrementum/incrementum-api/internal/platform/postgres"
	"github.com/incrementum/incrementum-api/internal/queue"
	"github.com/incrementum/incrementum-api/internal/service/review"
)

// application holds the composed dependencies of the running server.
type application struct {
	config        *config.Config
	logger        *slog.Logger
	db            *sql.DB
	reviewService review.ReviewService
}

// newApplication wires the stores, scheduler, and services together.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	params, err := srs.NewParams(srs.ParamsConfig{
		Weights:                cfg.Scheduler.Weights,
		DesiredRetention:       cfg.Scheduler.DesiredRetention,
		MaximumIntervalDays:    float64(cfg.Scheduler.MaximumIntervalDays),
		LearningStepMinutes:    cfg.Scheduler.LearningStepMinutes,
		RelearningStepMinutes:  cfg.Scheduler.RelearningStepMinutes,
		GraduatingIntervalDays: float64(cfg.Scheduler.GraduatingIntervalDays),
		EasyBonus:              cfg.Scheduler.EasyBonus,
		HardIntervalMultiplier: cfg.Scheduler.HardIntervalMultiplier,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}

	streakLoc, err := time.LoadLocation(cfg.Scheduler.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid streak timezone %q: %w", cfg.Scheduler.StreakTimezone, err)
	}

	itemStore := postgres.NewPostgresLearningItemStore(db, logger)
	logStore := postgres.NewPostgresReviewLogStore(db, logger)

	reviewService := review.NewReviewService(
		review.NewItemRepositoryAdapter(itemStore, db),
		review.NewLogRepositoryAdapter(logStore),
		srs.NewServiceWithParams(params),
		queue.Config{
			MaxItems:         cfg.Scheduler.MaxQueueItems,
			MaxNewItems:      cfg.Scheduler.MaxNewItems,
			NewItemRatio:     cfg.Scheduler.NewItemRatio,
			ExcludeSuspended: true,
		},
		streakLoc,
		logger,
	)

	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		reviewService: reviewService,
	}, nil
}
