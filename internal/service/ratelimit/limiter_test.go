package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurstPerKey(t *testing.T) {
	l := New(0.001, 2)
	assert.True(t, l.bucket("yahoo").Allow())
	assert.True(t, l.bucket("yahoo").Allow())
	assert.False(t, l.bucket("yahoo").Allow())

	// other keys have their own bucket
	assert.True(t, l.bucket("clickhouse").Allow())
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(0.001, 1)
	require.NoError(t, l.Wait(context.Background(), "k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "k"))
}

func TestDisabled(t *testing.T) {
	l := New(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx, "k"); err != nil {
			t.Fatalf("request %d blocked with limiting disabled: %v", i, err)
		}
	}
}
