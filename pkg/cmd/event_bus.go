// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/shopmate/shopmate/pkg/channels/gochannel"
	"github.com/shopmate/shopmate/pkg/channels/kafka"
	"github.com/shopmate/shopmate/pkg/eventbus"
	"github.com/shopmate/shopmate/pkg/otelhelper"
)

// NewEventBus creates an event bus instance based on the provider. The
// gochannel provider is in-process only and suited to single-binary
// deployments and local development. Publish and consume are traced
// through the OTLP exporter; a tracer setup failure downgrades to an
// untraced bus rather than refusing to start.
func NewEventBus(ctx context.Context, provider, kafkaBrokers, serviceName string, logger *slog.Logger) eventbus.EventBus {
	wmLogger := watermill.NewSlogLogger(logger)

	var (
		pub message.Publisher
		sub message.Subscriber
		err error
	)

	switch provider {
	case "kafka":
		pub, sub, err = kafka.CreateChannel(wmLogger, kafkaBrokers, serviceName)
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}
	case "gochannel":
		pub, sub, err = gochannel.CreateChannel(wmLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create gochannel pub/sub: %w", err))
		}
	default:
		panic("Unsupported event bus provider: " + provider)
	}

	bus := eventbus.NewWatermillEventBus(pub, sub)

	tracer, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		logger.WarnContext(ctx, "Tracing disabled, failed to initialize tracer", "error", err)

		return bus
	}

	return bus.WithTracer(tracer)
}
