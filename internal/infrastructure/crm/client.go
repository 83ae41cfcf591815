// Package crm is a client for the chatbot builder platform's contact API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
)

// ErrNotConfigured is returned when no base URL was provided.
var ErrNotConfigured = errors.New("crm: not configured")

// Config holds CRM API settings.
type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the CRM platform. Each call is bounded by its own timeout.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    HTTPDoer
}

func NewClient(cfg Config, doer HTTPDoer) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if doer == nil {
		doer = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		timeout: cfg.Timeout,
		http:    doer,
	}
}

// sendContentRequest is the wire shape of the send-content endpoint.
type sendContentRequest struct {
	Data sendContentData `json:"data"`
}

type sendContentData struct {
	Version string         `json:"version"`
	Content contentPayload `json:"content"`
}

type contentPayload struct {
	Messages []any             `json:"messages"`
	Actions  []entity.CRMAction `json:"actions"`
}

// SendContent pushes the action list to a contact and returns the raw response body.
func (c *Client) SendContent(ctx context.Context, userID string, payload entity.FieldUpdatePayload) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(sendContentRequest{Data: sendContentData{
		Version: "v2",
		Content: contentPayload{Messages: []any{}, Actions: payload.Actions},
	}})
	if err != nil {
		return nil, fmt.Errorf("send content: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/contacts/" + url.PathEscape(userID) + "/send_content"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("send content: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("send content: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

// SetCustomField writes a single custom field on a contact.
func (c *Client) SetCustomField(ctx context.Context, userID, fieldID, value string) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	if fieldID == "" {
		return fmt.Errorf("set custom field: %w", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("value", value)
	u := c.baseURL + "/users/" + url.PathEscape(userID) + "/custom_fields/" + url.PathEscape(fieldID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("set custom field: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("set custom field %s: %w", fieldID, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-ACCESS-TOKEN", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, &Error{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}

// Error represents a CRM API error.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("crm: %s (status %d)", e.Message, e.StatusCode)
}
