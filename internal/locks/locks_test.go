package locks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	release, err := l.Acquire(ctx, "lead:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "lead:1", time.Minute)
	require.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "lead:2", time.Minute)
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "lead:1", time.Minute)
	require.NoError(t, err)
	again()
}
