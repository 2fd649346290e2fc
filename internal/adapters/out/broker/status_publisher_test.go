package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/core/domain/services"
	"orderstate/internal/core/domain/statemachine"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type MockMessageWriter struct{ mock.Mock }

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func paid() services.StateChange {
	return services.StateChange{
		State:   order.WaitDeliver,
		Request: statemachine.EventRequest{Event: order.Payed, BusinessKey: 1001},
		Transition: statemachine.Transition{
			Rule: statemachine.Rule{Source: order.WaitPayment, Event: order.Payed, Target: order.WaitDeliver},
		},
	}
}

func TestStatusChangedPublisher_OnPersist(t *testing.T) {
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	writer := new(MockMessageWriter)
	var sent []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	p := NewStatusChangedPublisher(writer)
	p.now = func() time.Time { return at }

	require.NoError(t, p.OnPersist(t.Context(), paid()))

	require.Len(t, sent, 1)
	assert.Equal(t, "1001", string(sent[0].Key))
	var event OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(sent[0].Value, &event))
	assert.Equal(t, OrderStatusChangedEvent{
		BusinessKey: 1001,
		Event:       "PAYED",
		From:        "WAIT_PAYMENT",
		To:          "WAIT_DELIVER",
		OccurredAt:  at,
	}, event)
	writer.AssertExpectations(t)
}

func TestStatusChangedPublisher_WriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(writeErr).Once()

	err := NewStatusChangedPublisher(writer).OnPersist(t.Context(), paid())

	require.ErrorIs(t, err, writeErr)
}

func TestStatusChangedPublisher_PropagatesTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(t.Context(), "handle")
	defer span.End()

	msg := kafka.Message{}
	propagation.TraceContext{}.Inject(ctx, headerCarrier{msg: &msg})

	carrier := headerCarrier{msg: &msg}
	assert.Contains(t, carrier.Keys(), "traceparent")
	assert.Contains(t, carrier.Get("traceparent"), span.SpanContext().TraceID().String())

	carrier.Set("traceparent", "replaced")
	assert.Len(t, msg.Headers, 1)
	assert.Equal(t, "replaced", carrier.Get("traceparent"))
	assert.Empty(t, carrier.Get("missing"))
}

func TestStatusChangedPublisher_Close(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("Close").Return(nil).Once()

	require.NoError(t, NewStatusChangedPublisher(writer).Close())
	writer.AssertExpectations(t)
}
