package adapter

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-railbooking/pkg/application"
	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

// WatermillEventBus publica eventos de domínio em tópicos Watermill e entrega
// aos manipuladores registrados via assinatura.
type WatermillEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     application.AppLogger
}

func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus[E, D] {
	return &WatermillEventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}
}

func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	go bus.consume(eventName, handler)
}

func (bus *WatermillEventBus[E, D]) consume(eventName string, handler application.EventHandler[E, D]) {
	ctx := context.Background()

	messages, err := bus.subscriber.Subscribe(ctx, eventName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to event topic", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	for msg := range messages {
		var payload D
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
				"event_name": eventName,
			})
			msg.Nack()
			continue
		}

		event := &dynamicEvent[D]{eventName: eventName, payload: payload}
		typedEvent, ok := interface{}(event).(E)
		if !ok {
			bus.logger.Error(ctx, "error asserting event type", map[string]interface{}{
				"event_name": eventName,
			})
			msg.Nack()
			continue
		}

		if err := handler.Handle(msg.Context(), typedEvent); err != nil {
			application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
				"event_name": eventName,
			})
		}
		msg.Ack()
	}
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := bus.publisher.Publish(event.EventName(), msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	application.LogInfo(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": event.EventName(),
	})
	return nil
}

type dynamicEvent[D any] struct {
	eventName string
	payload   D
}

func (e *dynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *dynamicEvent[D]) Payload() D {
	return e.payload
}
