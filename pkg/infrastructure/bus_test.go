package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbooking/pkg/domain"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, fields map[string]interface{})  {}
func (nopLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {}
func (nopLogger) Trace(ctx context.Context, msg string, fields map[string]interface{}) {}

type testCommand struct {
	name string
	data string
}

func (c testCommand) CommandName() string { return c.name }
func (c testCommand) Payload() string     { return c.data }

type commandHandlerFunc func(ctx context.Context, command testCommand) error

func (f commandHandlerFunc) Handle(ctx context.Context, command testCommand) error {
	return f(ctx, command)
}

type testQuery struct {
	name string
	data string
}

func (q testQuery) QueryName() string { return q.name }
func (q testQuery) Payload() string   { return q.data }

type queryHandlerFunc func(ctx context.Context, query testQuery) (string, error)

func (f queryHandlerFunc) Handle(ctx context.Context, query testQuery) (string, error) {
	return f(ctx, query)
}

type testEvent struct {
	name string
	data string
}

func (e testEvent) EventName() string { return e.name }
func (e testEvent) Payload() string   { return e.data }

type eventHandlerFunc func(ctx context.Context, event testEvent) error

func (f eventHandlerFunc) Handle(ctx context.Context, event testEvent) error {
	return f(ctx, event)
}

var (
	_ domain.Command[string] = testCommand{}
	_ domain.Query[string]   = testQuery{}
	_ domain.Event[string]   = testEvent{}
)

func TestSimpleCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("Dispatch reaches the registered handler", func(t *testing.T) {
		bus := NewSimpleCommandBus[testCommand, string](nopLogger{})

		var received string
		bus.RegisterHandler("DoThing", commandHandlerFunc(func(ctx context.Context, command testCommand) error {
			received = command.Payload()
			return nil
		}))

		require.NoError(t, bus.Dispatch(ctx, testCommand{name: "DoThing", data: "payload"}))
		assert.Equal(t, "payload", received)
	})

	t.Run("Unregistered command fails", func(t *testing.T) {
		bus := NewSimpleCommandBus[testCommand, string](nopLogger{})
		assert.Error(t, bus.Dispatch(ctx, testCommand{name: "Missing"}))
	})

	t.Run("Handler error is propagated", func(t *testing.T) {
		bus := NewSimpleCommandBus[testCommand, string](nopLogger{})
		boom := errors.New("boom")
		bus.RegisterHandler("DoThing", commandHandlerFunc(func(ctx context.Context, command testCommand) error {
			return boom
		}))

		assert.ErrorIs(t, bus.Dispatch(ctx, testCommand{name: "DoThing"}), boom)
	})
}

func TestSimpleQueryBus(t *testing.T) {
	ctx := context.Background()

	t.Run("Dispatch returns the handler result", func(t *testing.T) {
		bus := NewSimpleQueryBus[testQuery, string, string](nopLogger{})
		bus.RegisterHandler("AskThing", queryHandlerFunc(func(ctx context.Context, query testQuery) (string, error) {
			return "answer:" + query.Payload(), nil
		}))

		result, err := bus.Dispatch(ctx, testQuery{name: "AskThing", data: "x"})
		require.NoError(t, err)
		assert.Equal(t, "answer:x", result)
	})

	t.Run("Unregistered query fails with the zero result", func(t *testing.T) {
		bus := NewSimpleQueryBus[testQuery, string, string](nopLogger{})
		result, err := bus.Dispatch(ctx, testQuery{name: "Missing"})
		assert.Error(t, err)
		assert.Empty(t, result)
	})

	t.Run("Cancelled context short-circuits", func(t *testing.T) {
		bus := NewSimpleQueryBus[testQuery, string, string](nopLogger{})
		bus.RegisterHandler("AskThing", queryHandlerFunc(func(ctx context.Context, query testQuery) (string, error) {
			t.Fatal("handler should not run")
			return "", nil
		}))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := bus.Dispatch(cancelled, testQuery{name: "AskThing"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSimpleEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("All handlers of the event run", func(t *testing.T) {
		bus := NewSimpleEventBus[testEvent, string](nopLogger{})

		var calls []string
		bus.RegisterHandler("Happened", eventHandlerFunc(func(ctx context.Context, event testEvent) error {
			calls = append(calls, "first:"+event.Payload())
			return nil
		}))
		bus.RegisterHandler("Happened", eventHandlerFunc(func(ctx context.Context, event testEvent) error {
			calls = append(calls, "second:"+event.Payload())
			return nil
		}))

		require.NoError(t, bus.Publish(ctx, testEvent{name: "Happened", data: "x"}))
		assert.Equal(t, []string{"first:x", "second:x"}, calls)
	})

	t.Run("Event without handlers is dropped silently", func(t *testing.T) {
		bus := NewSimpleEventBus[testEvent, string](nopLogger{})
		assert.NoError(t, bus.Publish(ctx, testEvent{name: "Nobody"}))
	})

	t.Run("Failing handler does not stop the others", func(t *testing.T) {
		bus := NewSimpleEventBus[testEvent, string](nopLogger{})

		var ran bool
		bus.RegisterHandler("Happened", eventHandlerFunc(func(ctx context.Context, event testEvent) error {
			return errors.New("boom")
		}))
		bus.RegisterHandler("Happened", eventHandlerFunc(func(ctx context.Context, event testEvent) error {
			ran = true
			return nil
		}))

		err := bus.Publish(ctx, testEvent{name: "Happened"})
		assert.Error(t, err)
		assert.True(t, ran)
	})
}
