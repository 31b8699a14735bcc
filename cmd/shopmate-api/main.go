package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/shopmate/shopmate/pkg/cmd"
	"github.com/shopmate/shopmate/pkg/log"
	"github.com/shopmate/shopmate/pkg/web"
)

const defaultPort = 9080

func main() {
	command := &cli.Command{
		Name:                  "shopmate-api",
		Usage:                 "Manage projects, tasks, and staff",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
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
				Name:    "jwt-secret",
				Usage:   "HMAC secret for bearer token validation",
				Sources: cli.EnvVars("JWT_SECRET"),
			},
			&cli.BoolFlag{
				Name:    "allow-org-header",
				Usage:   "Trust the X-Organization-ID header (development only)",
				Sources: cli.EnvVars("ALLOW_ORG_HEADER"),
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

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing ShopMate API")

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(
				ctx,
				command.String("event-bus"),
				command.String("kafka-brokers"),
				"shopmate-api",
				logger,
			)

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			loadCounter := cmd.NewLoadCounter(command.String("redis-url"))

			api := NewAPI(
				logger,
				persistence,
				eventBus,
				loadCounter,
				web.AuthConfig{
					JWTSecret:      command.String("jwt-secret"),
					AllowOrgHeader: command.Bool("allow-org-header"),
				},
			)

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
