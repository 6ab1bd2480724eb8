package rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	base := time.Date(2026, 3, 1, 10, 0, 15, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 1; i <= 2; i++ {
		res, err := l.Allow(testContext(t), "sid-1")
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.EqualValues(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(testContext(t), "sid-1")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.EqualValues(t, 3, res.CurrentHits)
	require.Equal(t, 45*time.Second, res.RetryAfter)

	// otra clave no comparte contador
	res, err = l.Allow(testContext(t), "sid-2")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// ventana siguiente
	l.now = func() time.Time { return base.Add(time.Minute) }
	res, err = l.Allow(testContext(t), "sid-1")
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.EqualValues(t, 1, res.CurrentHits)
}

func TestResult_RetryAfterFallsBackToWindow(t *testing.T) {
	res := result(5, 1, -1, 30*time.Second)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.Equal(t, 30*time.Second, res.RetryAfter)
}
