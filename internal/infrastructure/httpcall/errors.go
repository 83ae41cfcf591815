package httpcall

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout marks an attempt abandoned after the per-attempt timeout.
var ErrTimeout = errors.New("server error: request timed out")

// IntegrationError is returned once every attempt has failed. Its message is
// the last attempt's message.
type IntegrationError struct {
	Attempts int
	Err      error
}

func (e *IntegrationError) Error() string {
	if e.Err == nil {
		return "server error: upstream unavailable"
	}
	return e.Err.Error()
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ParseError is a 2xx response whose body is not JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "server error: unable to parse response" }

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeValidationError is a decoded body that does not have the expected shape.
type ShapeValidationError struct {
	Reason string
}

func (e *ShapeValidationError) Error() string {
	return "server error: incomplete or malformed response"
}

// RequireObjectKey returns a Validator accepting JSON objects that contain key.
func RequireObjectKey(key string) Validator {
	return func(decoded any) error {
		obj, ok := decoded.(map[string]any)
		if !ok || obj == nil {
			return &ShapeValidationError{Reason: "response is not a JSON object"}
		}
		if _, ok := obj[key]; !ok {
			return &ShapeValidationError{Reason: "missing key " + key}
		}
		return nil
	}
}
