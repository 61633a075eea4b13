package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNilClientDegradesToNoop(t *testing.T) {
	t.Parallel()

	store := New(nil, "test:")
	ctx := context.Background()

	var dest []string
	require.ErrorIs(t, store.Get(ctx, "key", &dest), ErrMiss)
	require.NoError(t, store.Set(ctx, "key", []string{"a"}, time.Minute))
	require.NoError(t, store.Invalidate(ctx, "key"))

	// Still a miss: nothing was stored.
	require.ErrorIs(t, store.Get(ctx, "key", &dest), ErrMiss)
}
