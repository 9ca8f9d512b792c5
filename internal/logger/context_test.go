package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext_RoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), base)

	if got := FromContext(ctx); got != base {
		t.Errorf("FromContext returned a different logger than was stored")
	}
}

func TestFromContext_MissingReturnsNil(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext on a bare context = %v, want nil", got)
	}
}
