package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie writes the signed session token cookie.
type SessionCookie struct {
	Name   string
	Domain string
	Secure bool
}

func NewSessionCookie(name, domain string, secure bool) *SessionCookie {
	return &SessionCookie{Name: name, Domain: domain, Secure: secure}
}

func (m *SessionCookie) Read(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}

func (m *SessionCookie) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
