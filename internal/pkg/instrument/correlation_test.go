package instrument

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		ctx := SetCorrelationID(context.Background(), "cid-123")

		// Act
		got := GetCorrelationID(ctx)

		// Assert
		if got != "cid-123" {
			t.Fatalf("got %q, want cid-123", got)
		}
	})

	t.Run("AbsentReturnsEmpty", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})

	t.Run("OverwriteKeepsLatest", func(t *testing.T) {
		ctx := SetCorrelationID(context.Background(), "first")
		ctx = SetCorrelationID(ctx, "second")

		if got := GetCorrelationID(ctx); got != "second" {
			t.Fatalf("got %q, want second", got)
		}
	})
}
