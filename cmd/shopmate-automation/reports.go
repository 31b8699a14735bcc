package main

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/shopmate/shopmate/pkg/services"
)

// Reporter periodically scans each configured organization for stage
// bottlenecks and logs aggregate task metrics.
type Reporter struct {
	schedule      string
	organizations []string
	taskService   *services.Task
	logger        *slog.Logger
	cron          *cron.Cron
}

func NewReporter(schedule string, organizations []string, taskService *services.Task, logger *slog.Logger) *Reporter {
	return &Reporter{
		schedule:      schedule,
		organizations: organizations,
		taskService:   taskService,
		logger:        logger.With("module", "bottleneck_reporter"),
		cron:          cron.New(),
	}
}

func (r *Reporter) Start() {
	_, err := r.cron.AddFunc(r.schedule, r.run)
	if err != nil {
		r.logger.Error("Invalid report schedule", "schedule", r.schedule, "error", err)

		return
	}

	r.cron.Start()
	r.logger.Info("Scheduled bottleneck reports", "schedule", r.schedule, "organizations", len(r.organizations))
}

func (r *Reporter) Stop() {
	r.cron.Stop()
}

func (r *Reporter) run() {
	ctx := context.Background()

	for _, org := range r.organizations {
		r.report(ctx, org)
	}
}

func (r *Reporter) report(ctx context.Context, organizationID string) {
	logger := r.logger.With("organization_id", organizationID)

	bottlenecks, err := r.taskService.Bottlenecks(ctx, organizationID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to compute bottlenecks", "error", err)

		return
	}

	for _, b := range bottlenecks {
		logger.WarnContext(ctx, "Stage backlog over threshold",
			"stage", b.Stage,
			"open_tasks", b.Count,
		)
	}

	metrics, err := r.taskService.Metrics(ctx, organizationID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to compute task metrics", "error", err)

		return
	}

	logger.InfoContext(ctx, "Daily task report",
		"total_tasks", metrics.TotalTasks,
		"completed_tasks", metrics.CompletedTasks,
		"pending_tasks", metrics.PendingTasks,
		"average_completion_time_hours", metrics.AverageCompletionTimeHours,
		"on_time_percentage", metrics.OnTimePercentage,
		"bottlenecks", len(bottlenecks),
	)
}
