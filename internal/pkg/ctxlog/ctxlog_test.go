package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_DefaultsToSlogDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger.With("request_id", "r-1"))
	ctx = With(ctx, "username", "alice")

	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=r-1")
	assert.Contains(t, buf.String(), "username=alice")
}
