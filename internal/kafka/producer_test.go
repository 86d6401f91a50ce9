package kafka

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// Shutdown can arrive from both directions: an explicit Close and a context
// cancel. Whichever loses the race must not close the inbox a second time.
func TestProducerCloseAfterCancelDoesNotPanic(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "test-topic", 8, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	p.WaitClosed()
	p.Close() // no-op after the cancel path already closed the inbox
}

func TestProducerCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "test-topic", 8, zap.NewNop())
	p.Start(context.Background())

	p.Close()
	p.Close()
	p.WaitClosed()
}
