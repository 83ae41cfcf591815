// Package androidlink turns a wallet-pass URL into an Android install link.
package androidlink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/httpcall"
)

// LinkKey is the key the link service must return.
const LinkKey = "passwalletLink"

var ErrEmptyURL = errors.New("androidlink: url is required")

// URLModificationError is a failed call to the URL rewriting service. It is never retried.
type URLModificationError struct {
	Err error
}

func (e *URLModificationError) Error() string {
	return "unable to process the install URL: " + e.Err.Error()
}

func (e *URLModificationError) Unwrap() error { return e.Err }

type Config struct {
	ModifyURL     string
	GenerateURL   string
	ModifyTimeout time.Duration
}

// Resolver runs the rewrite step once and the generate step through a retrying caller.
type Resolver struct {
	modifyURL     string
	generateURL   string
	modifyTimeout time.Duration
	http          httpcall.HTTPDoer
	caller        *httpcall.Caller
	logger        *logrus.Logger
}

func NewResolver(cfg Config, doer httpcall.HTTPDoer, caller *httpcall.Caller, logger *logrus.Logger) *Resolver {
	if cfg.ModifyTimeout <= 0 {
		cfg.ModifyTimeout = httpcall.DefaultTimeout
	}
	if doer == nil {
		doer = &http.Client{}
	}
	if caller == nil {
		caller = httpcall.New(httpcall.WithLogger(logger))
	}
	return &Resolver{
		modifyURL:     cfg.ModifyURL,
		generateURL:   cfg.GenerateURL,
		modifyTimeout: cfg.ModifyTimeout,
		http:          doer,
		caller:        caller,
		logger:        logger,
	}
}

// Resolve returns the link service's JSON body unchanged.
func (r *Resolver) Resolve(ctx context.Context, passURL string) (json.RawMessage, error) {
	passURL = strings.TrimSpace(passURL)
	if passURL == "" {
		return nil, ErrEmptyURL
	}

	link := passURL
	if r.modifyURL != "" {
		rewritten, err := r.rewrite(ctx, passURL)
		if err != nil {
			return nil, &URLModificationError{Err: err}
		}
		link = rewritten
	}

	res, err := r.caller.PostJSON(ctx, r.generateURL, map[string]string{"originalLink": link}, httpcall.RequireObjectKey(LinkKey))
	if err != nil {
		return nil, err
	}
	if r.logger != nil {
		r.logger.WithField("attempts", res.Attempts).Info("android link generated")
	}
	return json.RawMessage(res.Body), nil
}

func (r *Resolver) rewrite(ctx context.Context, passURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": passURL})
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.modifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.modifyURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &httpcall.StatusError{StatusCode: resp.StatusCode}
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &httpcall.ParseError{Err: err}
	}
	if out.URL == "" {
		return "", &httpcall.ShapeValidationError{Reason: "missing key url"}
	}
	return out.URL, nil
}
