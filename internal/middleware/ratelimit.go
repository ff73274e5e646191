package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"jobportal/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var errNoLimitStore = errors.New("rate limit store unavailable")

// Rule is a named request budget per subject and window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
	// FailClosed answers 503 while Redis is unreachable instead of letting
	// the request through.
	FailClosed bool
}

// Limiter enforces fixed-window rules in Redis under rl:<rule>:<subject>.
type Limiter struct {
	rdb     *redis.Client
	enabled bool
}

// NewLimiter returns a limiter. A disabled limiter allows everything.
func NewLimiter(rdb *redis.Client, enabled bool) *Limiter {
	return &Limiter{rdb: rdb, enabled: enabled}
}

// Allow counts one hit for subject. When the budget is spent it returns false
// and the time left in the window.
func (l *Limiter) Allow(ctx context.Context, rule Rule, subject string) (bool, time.Duration, error) {
	if !l.enabled {
		return true, 0, nil
	}
	if l.rdb == nil {
		return false, 0, errNoLimitStore
	}

	key := fmt.Sprintf("rl:%s:%s", rule.Name, subject)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, rule.Window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("rate_limit").Inc()
		return false, 0, err
	}
	if incr.Val() <= int64(rule.Limit) {
		return true, 0, nil
	}
	return false, ttl.Val(), nil
}

// Handler limits a route. Authenticated requests are counted per user,
// anonymous ones per client IP.
func (l *Limiter) Handler(rule Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			subject = fmt.Sprintf("user:%v", uid)
		}

		allowed, retryAfter, err := l.Allow(c.UserContext(), rule, subject)
		if err != nil {
			if !rule.FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store error, allowing request",
					"rule", rule.Name, "error", err)
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limit store error, rejecting request",
				"rule", rule.Name, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "rate limit unavailable",
				"code":  "RATE_LIMIT_UNAVAILABLE",
			})
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(rule.Name).Inc()
			if retryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many attempts, try again later",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
