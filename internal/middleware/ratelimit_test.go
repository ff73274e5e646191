package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLimiter_Allow(t *testing.T) {
	rule := Rule{Name: "oauth_callback", Limit: 2, Window: time.Minute}

	t.Run("disabled limiter allows without redis", func(t *testing.T) {
		allowed, _, err := NewLimiter(nil, false).Allow(context.Background(), rule, "ip:1.2.3.4")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("enabled limiter needs redis", func(t *testing.T) {
		allowed, _, err := NewLimiter(nil, true).Allow(context.Background(), rule, "ip:1.2.3.4")
		assert.ErrorIs(t, err, errNoLimitStore)
		assert.False(t, allowed)
	})

	t.Run("counts within window", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		l := NewLimiter(rdb, true)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			allowed, _, err := l.Allow(ctx, rule, "ip:1.2.3.4")
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, retryAfter, err := l.Allow(ctx, rule, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, time.Minute, retryAfter)
		assert.Equal(t, time.Minute, mr.TTL("rl:oauth_callback:ip:1.2.3.4"), "later hits must not extend the window")

		mr.FastForward(2 * time.Minute)
		allowed, _, err = l.Allow(ctx, rule, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestLimiter_Handler(t *testing.T) {
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	t.Run("fails open without redis", func(t *testing.T) {
		app := fiber.New()
		app.Get("/callback", NewLimiter(nil, true).Handler(Rule{Name: "oauth_callback", Limit: 1, Window: time.Minute}), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/callback", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("fails closed without redis", func(t *testing.T) {
		app := fiber.New()
		rule := Rule{Name: "setup_password", Limit: 1, Window: time.Minute, FailClosed: true}
		app.Post("/setup", NewLimiter(nil, true).Handler(rule), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/setup", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("over budget returns 429 with retry-after", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", uint(7))
			return c.Next()
		})
		app.Post("/setup", NewLimiter(rdb, true).Handler(Rule{Name: "setup_password", Limit: 1, Window: time.Minute}), ok)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/setup", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/setup", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "60", resp.Header.Get("Retry-After"))
		_ = resp.Body.Close()

		n, err := rdb.Get(context.Background(), "rl:setup_password:user:7").Int()
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
