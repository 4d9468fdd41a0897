package forms

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionLimiter rate limits public form submissions with a fixed Redis
// window per (org, form, hashed client IP). A Redis failure fails open: an
// outage of the limiter must not take public forms down with it.
type SubmissionLimiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewSubmissionLimiter creates a limiter. rdb may be nil; every check then
// allows.
func NewSubmissionLimiter(rdb redis.Cmdable, limit, windowSec int, logger *zap.Logger) *SubmissionLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionLimiter{
		rdb:    rdb,
		limit:  limit,
		window: time.Duration(windowSec) * time.Second,
		logger: logger,
	}
}

// Allow reports whether one more submission is admitted for the key. The
// counter starts its window on the first hit.
func (l *SubmissionLimiter) Allow(ctx context.Context, orgID, formID uuid.UUID, ipHash string) bool {
	if l.rdb == nil || l.limit <= 0 {
		return true
	}
	key := fmt.Sprintf("ratelimit:form_submit:%s:%s:%s", orgID, formID, ipHash)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing", zap.Error(err), zap.String("key", key))
		return true
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("rate limit expire failed", zap.Error(err), zap.String("key", key))
		}
	}
	return n <= int64(l.limit)
}
