package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIPKey is the gin context key holding the resolved client IP.
const RealIPKey = "real_ip"

// singleIPHeaders carry exactly one address set by a trusted edge.
var singleIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP"}

// RealIP resolves the client IP once per request. Lookup order:
// CF-Connecting-IP, X-Real-IP, the first parseable X-Forwarded-For entry,
// then gin's ClientIP. Addresses are stored in canonical form.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RealIPKey, resolveIP(c))
		c.Next()
	}
}

// ClientIP returns the address set by RealIP, or gin's view when RealIP did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(RealIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func resolveIP(c *gin.Context) string {
	for _, h := range singleIPHeaders {
		if ip := parseIP(c.GetHeader(h)); ip != "" {
			return ip
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}
	return c.ClientIP()
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
