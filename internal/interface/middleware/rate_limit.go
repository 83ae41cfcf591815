package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/loyalty-funnel/pkg/response"
)

const keyPrefix = "funnel:rl:"

func ipFromCtx(c *gin.Context) string {
	if ip := ClientIP(c); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return keyPrefix + "ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath counts each route separately per client IP.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return keyPrefix + "path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyBySession limits per browser session, falling back to the client IP
// before the session middleware has run.
func KeyBySession() KeyFunc {
	return func(c *gin.Context) string {
		sid := SessionID(c)
		if sid == "" {
			return keyPrefix + "session:anon:ip:" + ipFromCtx(c)
		}
		return keyPrefix + "session:" + sid + ":path:" + normalizePath(c)
	}
}

// hitScript increments the window counter, starts the window on the first
// hit and returns {count, remaining window in ms}.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type AllowFunc func(*gin.Context) bool // true bypasses the limit

// hit records one request against key.
func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (count int, reset time.Duration, err error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	count = toInt(res[0])
	if ms := toInt(res[1]); ms > 0 {
		reset = time.Duration(ms) * time.Millisecond
	}
	return count, reset, nil
}

// RateLimit allows max requests per key in each fixed window. It sets the
// X-RateLimit-* headers, answers 429 with Retry-After once the window is
// spent, and fails open when Redis errors. A nil client disables limiting.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, reset, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(math.Ceil(reset.Seconds()))

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(maxInt(max-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
