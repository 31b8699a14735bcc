package main

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/shopmate/shopmate/pkg/automation"
	"github.com/shopmate/shopmate/pkg/automation/ruleconfig"
	"github.com/shopmate/shopmate/pkg/cmd"
	"github.com/shopmate/shopmate/pkg/log"
	"github.com/shopmate/shopmate/pkg/notify"
	"github.com/shopmate/shopmate/pkg/roster"
	"github.com/shopmate/shopmate/pkg/services"
	"github.com/shopmate/shopmate/pkg/stages"
)

func main() {
	command := &cli.Command{
		Name:                  "shopmate-automation",
		EnableShellCompletion: true,
		Usage:                 "Run stage side effects, task auto-assignment, and scheduled reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker addresses",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for live staff load counters",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "rules-path",
				Usage:   "Path to a JSON file with per-stage automation rule overrides",
				Sources: cli.EnvVars("RULES_PATH"),
			},
			&cli.StringFlag{
				Name:    "report-schedule",
				Usage:   "Cron schedule for bottleneck and metrics reports",
				Value:   "0 8 * * *",
				Sources: cli.EnvVars("REPORT_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "report-organizations",
				Usage:   "Comma-separated organization IDs to include in scheduled reports",
				Sources: cli.EnvVars("REPORT_ORGANIZATIONS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("shopmate-automation").With("workerId", workerID)

			logger.InfoContext(ctx, "Initializing ShopMate automation worker")

			eventBus := cmd.NewEventBus(
				ctx,
				command.String("event-bus"),
				command.String("kafka-brokers"),
				"shopmate-automation",
				logger,
			)

			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			directory := stages.Default()

			effects := automation.NewEffectsRunner(
				directory,
				notify.NewSlogNotifier(logger),
				notify.NewLogRuleRunner(logger),
				eventBus,
				logger,
			)

			if rulesPath := command.String("rules-path"); rulesPath != "" {
				overlay, err := ruleconfig.Load(rulesPath, directory)
				if err != nil {
					return err
				}

				effects = effects.WithRuleOverlay(overlay)
				logger.InfoContext(ctx, "Loaded automation rule overrides", "path", rulesPath)
			}

			loadCounter := cmd.NewLoadCounter(command.String("redis-url"))
			rosterService := roster.NewService(persistence.StaffRepository(), loadCounter, logger)
			taskService := services.NewTask(persistence, automation.NewEngine(), rosterService, eventBus, logger)

			var reporter *Reporter
			if orgs := splitCSV(command.String("report-organizations")); len(orgs) > 0 {
				reporter = NewReporter(command.String("report-schedule"), orgs, taskService, logger)
			}

			worker := NewWorkerManager(
				workerID,
				eventBus,
				effects,
				taskService,
				reporter,
				logger,
			)

			err := worker.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start automation worker", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
