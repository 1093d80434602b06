package otel_test

import (
	"context"
	"errors"
	"testing"
	"tutorbook/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "booking.Reserve")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"slot.id":        "slot-1",
		"slot.capacity":  4,
		"ledger.version": int64(7),
		"flagged":        true,
	})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("slot is full"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "slot is full", spans[0].Status().Description)
	assert.Len(t, spans[0].Attributes(), 4)
}
