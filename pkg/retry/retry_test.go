package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(maxAttempts int) []Option {
	return []Option{
		WithMaxAttempts(maxAttempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
		WithJitter(0),
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, fastOptions(3)...)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	}, fastOptions(5)...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad input")

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, fastOptions(5)...)

	require.Error(t, err)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "plain errors are not retried by default")
}

func TestDo_RespectsRetryIf(t *testing.T) {
	transient := errors.New("lost the race")
	calls := 0

	opts := append(fastOptions(4), WithRetryIf(func(err error) bool {
		return errors.Is(err, transient)
	}))

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	}, opts...)

	require.Error(t, err)
	assert.Equal(t, 4, calls, "the budget covers every attempt including the first")
}

func TestDo_PermanentWinsOverRetryIf(t *testing.T) {
	calls := 0

	opts := append(fastOptions(5), WithRetryIf(func(err error) bool { return true }))

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(errors.New("do not retry"))
	}, opts...)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	transient := errors.New("transient")
	calls := 0
	err := Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return Retryable(transient)
	}, fastOptions(10)...)

	// Отмена во время паузы возвращает последнюю ошибку операции.
	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	value, err := DoWithData(context.Background(), func(ctx context.Context) (int64, error) {
		calls++
		if calls < 2 {
			return 0, Retryable(errors.New("transient"))
		}
		return 42, nil
	}, fastOptions(3)...)

	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
	assert.Equal(t, 2, calls)
}

func TestRetrier_CalculateDelayIsBounded(t *testing.T) {
	r := New(
		WithInitialDelay(10*time.Millisecond),
		WithMaxDelay(50*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0),
	)

	assert.Equal(t, 10*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 20*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 40*time.Millisecond, r.calculateDelay(3))
	assert.Equal(t, 50*time.Millisecond, r.calculateDelay(4), "delay is capped at the maximum")
	assert.Equal(t, 50*time.Millisecond, r.calculateDelay(10))
}

func TestErrorWrappers(t *testing.T) {
	base := errors.New("boom")

	assert.True(t, IsRetryable(Retryable(base)))
	assert.False(t, IsRetryable(base))
	assert.True(t, IsPermanent(Permanent(base)))
	assert.False(t, IsPermanent(base))

	assert.Nil(t, Retryable(nil))
	assert.Nil(t, Permanent(nil))
	assert.ErrorIs(t, Retryable(base), base)
}
