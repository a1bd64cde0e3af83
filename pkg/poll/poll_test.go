package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solsticedigital/backoffice/pkg/poll"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestWaitSucceedsOnLaterAttempt(t *testing.T) {
	calls := 0
	policy := poll.Policy{Interval: time.Second, MaxAttempts: 5, Sleep: noSleep}

	err := policy.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitExhaustsAttempts(t *testing.T) {
	calls := 0
	policy := poll.Policy{Interval: time.Second, MaxAttempts: 4, Sleep: noSleep}

	err := policy.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, poll.ErrExhausted)
	assert.Equal(t, 4, calls)
}

func TestWaitStopsOnCheckError(t *testing.T) {
	boom := errors.New("container errored")
	calls := 0
	policy := poll.Policy{Interval: time.Second, MaxAttempts: 10, Sleep: noSleep}

	err := policy.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	})

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, poll.ErrExhausted)
	assert.Equal(t, 1, calls, "error should stop the loop immediately")
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := poll.Policy{Interval: time.Second, MaxAttempts: 5, Sleep: noSleep}
	err := policy.Wait(ctx, func(ctx context.Context) (bool, error) {
		t.Fatal("check should not run after cancellation")
		return false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitDefaultsToSingleAttempt(t *testing.T) {
	calls := 0
	policy := poll.Policy{Sleep: noSleep}

	err := policy.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	require.ErrorIs(t, err, poll.ErrExhausted)
	assert.Equal(t, 1, calls)
}
