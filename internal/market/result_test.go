package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFound_ReturnsFirstHit(t *testing.T) {
	calls := 0
	r := FirstFound(context.Background(),
		func(context.Context) Result[string] { calls++; return NotFound[string]() },
		func(context.Context) Result[string] { calls++; return Found("second") },
		func(context.Context) Result[string] { calls++; return Found("third") },
	)
	require.True(t, r.OK())
	assert.Equal(t, "second", r.Value)
	assert.Equal(t, 2, calls)
}

func TestFirstFound_FailedWhenAnyStageFailed(t *testing.T) {
	boom := errors.New("boom")
	r := FirstFound(context.Background(),
		func(context.Context) Result[int] { return Failed[int](boom) },
		func(context.Context) Result[int] { return NotFound[int]() },
	)
	assert.Equal(t, StatusFailed, r.Status)
	assert.ErrorIs(t, r.Err, boom)
}

func TestFirstFound_NotFoundWhenNothingAnswered(t *testing.T) {
	r := FirstFound(context.Background(),
		func(context.Context) Result[int] { return NotFound[int]() },
	)
	assert.Equal(t, StatusNotFound, r.Status)
	assert.NoError(t, r.Err)
}

func TestFirstFound_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	r := FirstFound(ctx, func(context.Context) Result[int] { called = true; return Found(1) })
	assert.False(t, called)
	assert.Equal(t, StatusFailed, r.Status)
	assert.ErrorIs(t, r.Err, context.Canceled)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "found", StatusFound.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "not_found", StatusNotFound.String())
}
