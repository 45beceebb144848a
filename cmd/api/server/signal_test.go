package server

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSignal_CancelsOnSIGTERM(t *testing.T) {
	ctx, stop := WithSignal(context.Background())
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled by SIGTERM")
	}
}

func TestWithSignal_StopCancels(t *testing.T) {
	ctx, stop := WithSignal(context.Background())
	stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
