package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
)

// SessionIDKey is the gin context key holding the opaque session id.
const SessionIDKey = "session_id"

// Session resolves the session id from the signed cookie, minting a new one
// when the cookie is absent or invalid, and refreshes the cookie's expiry.
func Session(tokens *helpers.SessionTokens, cookie *helpers.SessionCookie, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		if raw := cookie.Read(c); raw != "" {
			parsed, err := tokens.Parse(raw)
			if err != nil && logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Debug("session cookie rejected")
			}
			sid = parsed
		}
		if sid == "" {
			sid = helpers.NewSessionID()
		}

		tok, exp, err := tokens.Sign(sid)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Error("sign session token failed")
			}
		} else {
			cookie.Set(c, tok, exp)
		}

		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
