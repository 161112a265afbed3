package msgqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryDelay(t *testing.T) {
	base := time.Second
	max := 5 * time.Minute

	require.Equal(t, time.Second, retryDelay(1, base, max))
	require.Equal(t, 2*time.Second, retryDelay(2, base, max))
	require.Equal(t, 4*time.Second, retryDelay(3, base, max))
	require.Equal(t, 64*time.Second, retryDelay(7, base, max))
	require.Equal(t, max, retryDelay(20, base, max))
	require.Equal(t, max, retryDelay(100, base, max))
}

func TestRetryDelayClampsAttempt(t *testing.T) {
	require.Equal(t, time.Second, retryDelay(0, time.Second, time.Minute))
	require.Equal(t, time.Second, retryDelay(-3, time.Second, time.Minute))
}

func TestRetryDelayCapsBase(t *testing.T) {
	require.Equal(t, time.Minute, retryDelay(1, 2*time.Minute, time.Minute))
}

func TestConsumerOptionsFill(t *testing.T) {
	opts := ConsumerOptions{Queue: ResultsQueue}
	opts.fill()

	require.Equal(t, time.Second, opts.PollInterval)
	require.Equal(t, time.Second, opts.RetryBase)
	require.Equal(t, 5*time.Minute, opts.MaxBackoff)
	require.Equal(t, 10, opts.MaxAttempts)
}
