package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-railbooking/pkg/application"
	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

const correlationIDKey = "correlation_id"

// WatermillQueryBus despacha consultas por requisição/resposta sobre tópicos
// Watermill. A resposta é correlacionada pelo metadado correlation_id.
type WatermillQueryBus[Q domain.Query[D], D any, R any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string]application.QueryHandler[Q, D, R]
	mu         sync.RWMutex
	logger     application.AppLogger
}

func NewWatermillQueryBus[Q domain.Query[D], D any, R any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillQueryBus[Q, D, R] {
	return &WatermillQueryBus[Q, D, R]{
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string]application.QueryHandler[Q, D, R]),
		logger:     logger,
	}
}

func (bus *WatermillQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	bus.mu.Lock()
	bus.handlers[queryName] = handler
	bus.mu.Unlock()

	go bus.serve(queryName, handler)
}

func (bus *WatermillQueryBus[Q, D, R]) serve(queryName string, handler application.QueryHandler[Q, D, R]) {
	ctx := context.Background()

	messages, err := bus.subscriber.Subscribe(ctx, queryName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to query topic", err, map[string]interface{}{
			"query_name": queryName,
		})
		return
	}

	for msg := range messages {
		var payload D
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			application.LogError(ctx, bus.logger, "error unmarshalling query payload", err, map[string]interface{}{
				"query_name": queryName,
			})
			msg.Nack()
			continue
		}

		query := &dynamicQuery[D]{queryName: queryName, payload: payload}
		typedQuery, ok := interface{}(query).(Q)
		if !ok {
			bus.logger.Error(ctx, "error asserting query type", map[string]interface{}{
				"query_name": queryName,
			})
			msg.Nack()
			continue
		}

		result, err := handler.Handle(msg.Context(), typedQuery)
		if err != nil {
			application.LogError(ctx, bus.logger, "error handling query", err, map[string]interface{}{
				"query_name": queryName,
			})
			msg.Ack()
			continue
		}

		responsePayload, err := json.Marshal(result)
		if err != nil {
			application.LogError(ctx, bus.logger, "error marshalling query result", err, map[string]interface{}{
				"query_name": queryName,
			})
			msg.Ack()
			continue
		}

		responseMsg := message.NewMessage(watermill.NewUUID(), responsePayload)
		responseMsg.Metadata.Set(correlationIDKey, msg.Metadata.Get(correlationIDKey))
		if err := bus.publisher.Publish(responseTopic(queryName), responseMsg); err != nil {
			application.LogError(ctx, bus.logger, "error publishing query response", err, map[string]interface{}{
				"query_name": queryName,
			})
		}
		msg.Ack()
	}
}

func (bus *WatermillQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	var zero R

	bus.mu.RLock()
	_, found := bus.handlers[query.QueryName()]
	bus.mu.RUnlock()

	if !found {
		return zero, errors.New("no handler registered for query")
	}

	payload, err := application.MarshalPayload(query.Payload())
	if err != nil {
		return zero, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	responses, err := bus.subscriber.Subscribe(subCtx, responseTopic(query.QueryName()))
	if err != nil {
		return zero, err
	}

	correlationID := watermill.NewUUID()
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(correlationIDKey, correlationID)
	msg.SetContext(ctx)

	if err := bus.publisher.Publish(query.QueryName(), msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing query", err, map[string]interface{}{
			"query_name": query.QueryName(),
		})
		return zero, err
	}

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case response, open := <-responses:
			if !open {
				return zero, errors.New("query response channel closed")
			}
			if response.Metadata.Get(correlationIDKey) != correlationID {
				response.Ack()
				continue
			}

			var result R
			if err := json.Unmarshal(response.Payload, &result); err != nil {
				response.Nack()
				return zero, err
			}
			response.Ack()
			return result, nil
		}
	}
}

func responseTopic(queryName string) string {
	return queryName + "_response"
}

type dynamicQuery[D any] struct {
	queryName string
	payload   D
}

func (q *dynamicQuery[D]) QueryName() string {
	return q.queryName
}

func (q *dynamicQuery[D]) Payload() D {
	return q.payload
}
