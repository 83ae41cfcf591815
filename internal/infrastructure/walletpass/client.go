// Package walletpass issues digital wallet passes from a pass template.
package walletpass

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
)

// ErrMissingPassURL is returned when the API answers 2xx without an installable url.
var ErrMissingPassURL = errors.New("walletpass: response has no pass url")

type Config struct {
	BaseURL    string
	TemplateID string
	APIKey     string
	Timeout    time.Duration
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PassRequest is the holder data printed on the pass.
type PassRequest struct {
	FirstName    string `json:"FirstName"`
	LastName     string `json:"LastName"`
	Email        string `json:"Email"`
	Phone        string `json:"Phone"`
	CurrentOffer string `json:"Current_Offer"`
	IDCBB        string `json:"Id_CBB"`
	IDWC         string `json:"Id_WC"`
	IDDeReferido string `json:"Id_DeReferido"`
	LastMessage  string `json:"Last_Message"`
	Points       string `json:"Points"`
}

// Pass is an issued pass.
type Pass struct {
	SerialNumber       string `json:"serialNumber"`
	PassTypeIdentifier string `json:"passTypeIdentifier"`
	URL                string `json:"url"`
}

type Client struct {
	baseURL    string
	templateID string
	apiKey     string
	timeout    time.Duration
	http       HTTPDoer
}

func NewClient(cfg Config, doer HTTPDoer) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if doer == nil {
		doer = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		templateID: cfg.TemplateID,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		http:       doer,
	}
}

// IssuePass creates a pass for the holder. Zero-valued counters are sent as "0".
func (c *Client) IssuePass(ctx context.Context, in PassRequest) (*Pass, error) {
	if in.IDWC == "" {
		in.IDWC = "0"
	}
	if in.Points == "" {
		in.Points = "0"
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("issue pass: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + "/templates/" + url.PathEscape(c.templateID) + "/pass"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("issue pass: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("issue pass: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("issue pass: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	var pass Pass
	if err := json.Unmarshal(raw, &pass); err != nil {
		return nil, fmt.Errorf("issue pass: decode: %w", err)
	}
	if pass.URL == "" {
		return nil, ErrMissingPassURL
	}
	return &pass, nil
}

// Error represents a wallet-pass API error.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("walletpass: %s (status %d)", e.Message, e.StatusCode)
}
