package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCounter is an in-memory WindowCounter with a settable clock
type mockCounter struct {
	now       time.Time
	counts    map[string]int64
	expiresAt map[string]time.Time
	expireErr error
}

func newMockCounter() *mockCounter {
	return &mockCounter{
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		counts:    make(map[string]int64),
		expiresAt: make(map[string]time.Time),
	}
}

func (m *mockCounter) Hit(_ context.Context, key string) (int64, time.Duration, error) {
	if at, ok := m.expiresAt[key]; ok && !m.now.Before(at) {
		delete(m.counts, key)
		delete(m.expiresAt, key)
	}
	m.counts[key]++
	at, ok := m.expiresAt[key]
	if !ok {
		return m.counts[key], -1, nil
	}
	return m.counts[key], at.Sub(m.now), nil
}

func (m *mockCounter) Expire(ctx context.Context, key string, window time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.expireErr != nil {
		return m.expireErr
	}
	m.expiresAt[key] = m.now.Add(window)
	return nil
}

func TestRedisLimiterWindow(t *testing.T) {
	c := newMockCounter()
	l := newWindowLimiter(c, 2, time.Minute)
	ctx := context.Background()

	for _, want := range []bool{true, true, false, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
	assert.Equal(t, c.now.Add(time.Minute), c.expiresAt["hypo:ratelimit:1.2.3.4"])

	c.now = c.now.Add(time.Minute)
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterExpiresAfterCancel(t *testing.T) {
	c := newMockCounter()
	l := newWindowLimiter(c, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, c.expiresAt, "hypo:ratelimit:1.2.3.4")

	ok, _ = l.Allow(context.Background(), "1.2.3.4")
	assert.False(t, ok)

	c.now = c.now.Add(time.Minute)
	ok, _ = l.Allow(context.Background(), "1.2.3.4")
	assert.True(t, ok)
}

func TestRedisLimiterRepairsMissingExpiry(t *testing.T) {
	c := newMockCounter()
	l := newWindowLimiter(c, 1, time.Minute)
	ctx := context.Background()

	c.expireErr = errors.New("connection reset")
	_, err := l.Allow(ctx, "1.2.3.4")
	assert.Error(t, err)
	assert.Empty(t, c.expiresAt)

	c.expireErr = nil
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, c.expiresAt, "hypo:ratelimit:1.2.3.4")

	c.now = c.now.Add(time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}
