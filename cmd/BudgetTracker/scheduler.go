package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"go.uber.org/zap"
)

type driftAuditor interface {
	Run(ctx context.Context) (application.DriftReport, error)
}

// StartDriftAuditScheduler runs the auditor on the given cron schedule. Runs never overlap.
func StartDriftAuditScheduler(schedule string, auditor driftAuditor, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		report, err := auditor.Run(ctx)
		if err != nil {
			logger.Error("Error running drift audit", zap.Error(err))
			return
		}
		if !report.Clean() {
			logger.Warn("drift audit found mismatches",
				zap.Int("wallets", len(report.Wallets)),
				zap.Int("budgets", len(report.Budgets)),
				zap.Int("mirrors", len(report.Mirrors)),
				zap.Bool("repaired", report.Repaired))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
