package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when the limiter store
// is unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503 Service Unavailable.
	FailClosed
)

// Rule names a throttled resource and its budget. Rules are declared
// next to the routes they protect, so the route table reads as the
// single inventory of what is limited and how hard.
type Rule struct {
	Resource string
	Limit    int
	Window   time.Duration
	OnError  FailPolicy
}

// Allow reports whether one more hit on the resource fits the rule's
// budget for the given caller. Throttling is off in "test" and
// "development" so local and CI workflows are never blocked.
func (r Rule) Allow(ctx context.Context, rdb *redis.Client, id string) (bool, error) {
	switch appEnv() {
	case "test", "development":
		return true, nil
	}
	if rdb == nil {
		return false, errors.New("rate limiter has no redis client")
	}

	key := "rl:" + r.Resource + ":" + id
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, r.Window)
	}
	return cnt <= int64(r.Limit), nil
}

func appEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}

// RateLimit enforces the rule per authenticated user, falling back to
// the remote IP for anonymous callers.
func RateLimit(rdb *redis.Client, rule Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}

		allowed, err := rule.Allow(c.UserContext(), rdb, id)
		if err != nil {
			if rule.OnError == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limiter unavailable",
					slog.String("resource", rule.Resource),
					slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
