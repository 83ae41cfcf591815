// Package httpcall performs JSON POSTs with a per-attempt timeout and bounded
// exponential-backoff retries.
package httpcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 3
	DefaultTimeout     = 15 * time.Second
	DefaultBaseBackoff = time.Second
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Validator inspects a decoded JSON body. A non-nil error fails the attempt.
type Validator func(decoded any) error

// SleepFunc waits d or returns early with ctx's error.
type SleepFunc func(ctx context.Context, d time.Duration) error

// AttemptHook observes every attempt; err is nil on success.
type AttemptHook func(attempt int, err error)

// Result is the first response that passed validation.
type Result struct {
	StatusCode int
	Body       []byte
	Decoded    any
	Attempts   int
}

type Caller struct {
	client      HTTPDoer
	maxAttempts int
	timeout     time.Duration
	baseBackoff time.Duration
	sleep       SleepFunc
	logger      *logrus.Logger
	onAttempt   AttemptHook
}

type Option func(*Caller)

func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Caller) {
		if d != nil {
			c.client = d
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(c *Caller) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Caller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithBaseBackoff(d time.Duration) Option {
	return func(c *Caller) {
		if d > 0 {
			c.baseBackoff = d
		}
	}
}

func WithSleep(fn SleepFunc) Option {
	return func(c *Caller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Caller) { c.logger = l }
}

func WithAttemptHook(h AttemptHook) Option {
	return func(c *Caller) { c.onAttempt = h }
}

func New(opts ...Option) *Caller {
	c := &Caller{
		client:      &http.Client{},
		maxAttempts: DefaultMaxAttempts,
		timeout:     DefaultTimeout,
		baseBackoff: DefaultBaseBackoff,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff returns the wait before the retry that follows failed attempt index i (0-based).
func (c *Caller) Backoff(i int) time.Duration {
	return c.baseBackoff * time.Duration(1<<uint(i))
}

// PostJSON sends body as JSON to url until an attempt returns a 2xx, parseable
// body accepted by validate, or the attempt budget runs out.
func (c *Caller) PostJSON(ctx context.Context, url string, body any, validate Validator) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	attempts := 0
	for i := 0; i < c.maxAttempts; i++ {
		if i > 0 {
			wait := c.Backoff(i - 1)
			c.log().WithFields(logrus.Fields{"url": url, "wait": wait.String(), "next_attempt": i + 1}).Debug("waiting before retry")
			if err := c.sleep(ctx, wait); err != nil {
				break
			}
		}
		attempts++

		res, err := c.attempt(ctx, url, payload, validate)
		if c.onAttempt != nil {
			c.onAttempt(i+1, err)
		}
		if err == nil {
			res.Attempts = attempts
			return res, nil
		}
		lastErr = err
		c.log().WithError(err).WithFields(logrus.Fields{
			"url":     url,
			"attempt": i + 1,
			"max":     c.maxAttempts,
		}).Warn("upstream attempt failed")

		if ctx.Err() != nil {
			break
		}
	}

	c.log().WithError(lastErr).WithField("url", url).Error("all upstream attempts failed")
	return nil, &IntegrationError{Attempts: attempts, Err: lastErr}
}

func (c *Caller) attempt(ctx context.Context, url string, payload []byte, validate Validator) (*Result, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log().WithFields(logrus.Fields{"url": url, "status": resp.StatusCode, "body": truncate(raw, 512)}).Debug("upstream error body")
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ParseError{Err: err}
	}
	if validate != nil {
		if err := validate(decoded); err != nil {
			return nil, err
		}
	}
	return &Result{StatusCode: resp.StatusCode, Body: raw, Decoded: decoded}, nil
}

func (c *Caller) log() *logrus.Logger {
	if c.logger != nil {
		return c.logger
	}
	return discard
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
