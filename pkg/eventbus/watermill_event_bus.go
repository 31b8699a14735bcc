package eventbus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopmate/shopmate/pkg/events"
	"github.com/shopmate/shopmate/pkg/otelhelper"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
	tracer        trace.Tracer
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

// WithTracer instruments publish and consume with spans. Must be called
// before the bus is shared.
func (eb *WatermillEventBus) WithTracer(tracer trace.Tracer) *WatermillEventBus {
	eb.tracer = tracer

	return eb
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	if eb.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, eb.tracer, "eventbus.publish",
			attribute.String("event.type", string(event.GetType())),
			attribute.String("event.key", key),
		)
		defer span.End()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eb.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (eb *WatermillEventBus) dispatch(ctx context.Context, msg *message.Message) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	msgCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))

	var span trace.Span

	if eb.tracer != nil {
		msgCtx, span = otelhelper.StartSpan(msgCtx, eb.tracer, "eventbus.consume",
			attribute.String("event.type", string(eventType)),
			attribute.String("event.key", msg.Metadata.Get(events.EventMetadataKey)),
		)
		defer span.End()
	}

	handler, exists := eb.subscriptions[eventType]
	if !exists {
		msg.Ack()

		return
	}

	var event any

	switch eventType {
	case events.ProjectStageEnteredEvent:
		event = &events.ProjectStageEntered{}
	case events.ProjectDelayReportedEvent:
		event = &events.ProjectDelayReported{}
	case events.AIActionTriggeredEvent:
		event = &events.AIActionTriggered{}
	case events.AutomationRuleFiredEvent:
		event = &events.AutomationRuleFired{}
	case events.TaskCreatedEvent:
		event = &events.TaskCreated{}
	case events.TaskAssignedEvent:
		event = &events.TaskAssigned{}
	case events.TaskCompletedEvent:
		event = &events.TaskCompleted{}
	default:
		if span != nil {
			otelhelper.SetError(span, errors.New("unknown event type"))
		}

		msg.Nack()

		return
	}

	if err := json.Unmarshal(msg.Payload, event); err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
		}

		msg.Nack()

		return
	}

	if err := handler(msgCtx, event); err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
		}

		msg.Nack()

		return
	}

	msg.Ack()
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}
