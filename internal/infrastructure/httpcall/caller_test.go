package httpcall

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func scripted(t *testing.T, responses ...func(w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		idx := int(n) - 1
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		responses[idx](w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func jsonBody(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestPostJSON_FirstAttemptSucceeds(t *testing.T) {
	srv, calls := scripted(t, jsonBody(http.StatusOK, `{"passwalletLink":"https://pw/1"}`))
	rec := &sleepRecorder{}
	c := New(WithSleep(rec.sleep))

	res, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"originalLink": "x"}, RequireObjectKey("passwalletLink"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, rec.waits)
	assert.Equal(t, "https://pw/1", res.Decoded.(map[string]any)["passwalletLink"])
}

func TestPostJSON_RetriesMalformedThenSucceeds(t *testing.T) {
	srv, calls := scripted(t,
		jsonBody(http.StatusOK, `{"other":true}`),
		jsonBody(http.StatusOK, `{"other":true}`),
		jsonBody(http.StatusOK, `{"passwalletLink":"https://pw/3"}`),
	)
	rec := &sleepRecorder{}
	c := New(WithSleep(rec.sleep))

	res, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, RequireObjectKey("passwalletLink"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.waits)

	var total time.Duration
	for _, w := range rec.waits {
		total += w
	}
	assert.Equal(t, 3*time.Second, total)
}

func TestPostJSON_ExhaustionReportsLastError(t *testing.T) {
	srv, calls := scripted(t,
		jsonBody(http.StatusOK, `not json`),
		jsonBody(http.StatusOK, `[]`),
		jsonBody(http.StatusBadGateway, `upstream down`),
	)
	rec := &sleepRecorder{}
	c := New(WithSleep(rec.sleep))

	res, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, RequireObjectKey("passwalletLink"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Len(t, rec.waits, 2)

	var ie *IntegrationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 3, ie.Attempts)
	assert.Equal(t, "server error: 502 Bad Gateway", err.Error())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestPostJSON_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		resp func(w http.ResponseWriter)
		want string
	}{
		{"unparseable", jsonBody(http.StatusOK, `<html>`), "server error: unable to parse response"},
		{"null body", jsonBody(http.StatusOK, `null`), "server error: incomplete or malformed response"},
		{"missing key", jsonBody(http.StatusOK, `{"url":"x"}`), "server error: incomplete or malformed response"},
		{"status", jsonBody(http.StatusServiceUnavailable, `{}`), "server error: 503 Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := scripted(t, tt.resp)
			c := New(WithSleep((&sleepRecorder{}).sleep), WithMaxAttempts(1))

			_, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, RequireObjectKey("passwalletLink"))
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestPostJSON_TimeoutCountsAsFailedAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		jsonBody(http.StatusOK, `{"passwalletLink":"ok"}`)(w)
	}))
	t.Cleanup(srv.Close)

	rec := &sleepRecorder{}
	c := New(WithSleep(rec.sleep), WithTimeout(50*time.Millisecond))

	res, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, RequireObjectKey("passwalletLink"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, []time.Duration{time.Second}, rec.waits)
}

func TestPostJSON_AttemptHookSeesEveryAttempt(t *testing.T) {
	srv, _ := scripted(t,
		jsonBody(http.StatusInternalServerError, `{}`),
		jsonBody(http.StatusOK, `{"passwalletLink":"ok"}`),
	)
	var seen []bool
	c := New(
		WithSleep((&sleepRecorder{}).sleep),
		WithAttemptHook(func(_ int, err error) { seen = append(seen, err == nil) }),
	)

	_, err := c.PostJSON(context.Background(), srv.URL, map[string]string{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, seen)
}

func TestPostJSON_CancelledContextStopsRetrying(t *testing.T) {
	srv, calls := scripted(t, jsonBody(http.StatusInternalServerError, `{}`))
	ctx, cancel := context.WithCancel(context.Background())
	c := New(WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := c.PostJSON(ctx, srv.URL, map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "server error: 500 Internal Server Error", err.Error())
}

func TestBackoffSchedule(t *testing.T) {
	c := New()
	assert.Equal(t, time.Second, c.Backoff(0))
	assert.Equal(t, 2*time.Second, c.Backoff(1))
	assert.Equal(t, 4*time.Second, c.Backoff(2))
}
