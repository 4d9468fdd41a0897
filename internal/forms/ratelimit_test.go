package forms

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T, limit, windowSec int) (*SubmissionLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSubmissionLimiter(rdb, limit, windowSec, nil), mr
}

func TestLimiterAllowsWithinLimit(t *testing.T) {
	l, _ := testLimiter(t, 3, 600)
	orgID, formID := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(context.Background(), orgID, formID, "iphash"), "request %d", i+1)
	}
	assert.False(t, l.Allow(context.Background(), orgID, formID, "iphash"), "request over the limit")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l, _ := testLimiter(t, 1, 600)
	orgID, formID := uuid.New(), uuid.New()

	require.True(t, l.Allow(context.Background(), orgID, formID, "caller-a"))
	assert.False(t, l.Allow(context.Background(), orgID, formID, "caller-a"))

	assert.True(t, l.Allow(context.Background(), orgID, formID, "caller-b"), "other callers unaffected")
	assert.True(t, l.Allow(context.Background(), orgID, uuid.New(), "caller-a"), "other forms unaffected")
}

func TestLimiterWindowExpires(t *testing.T) {
	l, mr := testLimiter(t, 1, 600)
	orgID, formID := uuid.New(), uuid.New()

	require.True(t, l.Allow(context.Background(), orgID, formID, "iphash"))
	require.False(t, l.Allow(context.Background(), orgID, formID, "iphash"))

	mr.FastForward(601 * time.Second)
	assert.True(t, l.Allow(context.Background(), orgID, formID, "iphash"), "new window admits again")
}

func TestLimiterFailsOpenOnRedisError(t *testing.T) {
	l, mr := testLimiter(t, 1, 600)
	mr.Close()

	assert.True(t, l.Allow(context.Background(), uuid.New(), uuid.New(), "iphash"))
}

func TestLimiterNilBackendAllows(t *testing.T) {
	l := NewSubmissionLimiter(nil, 1, 600, nil)
	orgID, formID := uuid.New(), uuid.New()
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(context.Background(), orgID, formID, "iphash"))
	}
}

func TestLimiterZeroLimitDisables(t *testing.T) {
	l, _ := testLimiter(t, 0, 600)
	assert.True(t, l.Allow(context.Background(), uuid.New(), uuid.New(), "iphash"))
}
