package judge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "veritas:judge:verdict:"

// verdictCmdable is the slice of the redis API the cache needs.
type verdictCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedJudge caches judge verdicts in redis, keyed by a fingerprint of the
// entity and its discrepancies. Only real verdicts are cached; fallback
// responses produced on judge failure never enter the cache because Evaluate
// returns an error in that case.
type CachedJudge struct {
	inner  Judge
	redis  verdictCmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedJudge wraps inner with a redis verdict cache. A nil cmdable
// disables caching and returns inner unchanged.
func NewCachedJudge(inner Judge, cmdable verdictCmdable, ttl time.Duration, logger *slog.Logger) Judge {
	if cmdable == nil {
		return inner
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedJudge{inner: inner, redis: cmdable, ttl: ttl, logger: logger}
}

func (c *CachedJudge) Evaluate(ctx context.Context, req Request) (*Response, error) {
	key := cacheKeyPrefix + Fingerprint(req)

	if raw, err := c.redis.Get(ctx, key).Result(); err == nil {
		var resp Response
		if err := json.Unmarshal([]byte(raw), &resp); err == nil {
			return &resp, nil
		}
		c.logger.WarnContext(ctx, "discarding unreadable cached verdict", "key", key)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "verdict cache read failed", "error", err)
	}

	resp, err := c.inner.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(resp); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "verdict cache write failed", "error", err)
		}
	}

	return resp, nil
}

// Fingerprint derives a stable cache key from the entity identity and the
// conflicting values. Discrepancy order does not affect the result.
func Fingerprint(req Request) string {
	parts := make([]string, 0, len(req.Discrepancies))
	for _, d := range req.Discrepancies {
		parts = append(parts, d.Field+"="+strings.Join(d.Values, "\x1f"))
	}
	sort.Strings(parts)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", req.EntityName, req.EntityType, req.Origin)
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
