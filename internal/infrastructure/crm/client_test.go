package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, AccessToken: "tok", Timeout: time.Second}, nil)
}

func TestSendContent(t *testing.T) {
	var got sendContentRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts/crm-42/send_content", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-ACCESS-TOKEN"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	payload := entity.FieldUpdatePayload{Actions: []entity.CRMAction{
		{Action: entity.ActionSetFieldValue, FieldName: entity.FieldFirstName, Value: "Ana"},
		{Action: entity.ActionSendFlow, FlowID: "flow-1"},
	}}
	raw, err := c.SendContent(context.Background(), "crm-42", payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(raw))

	assert.Equal(t, "v2", got.Data.Version)
	assert.Equal(t, payload.Actions, got.Data.Content.Actions)
}

func TestSendContent_EmptyBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	raw, err := c.SendContent(context.Background(), "id", entity.FieldUpdatePayload{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestSendContent_APIError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))

	_, err := c.SendContent(context.Background(), "id", entity.FieldUpdatePayload{})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid token", apiErr.Message)
}

func TestSetCustomField(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/crm-42/custom_fields/596796", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ana+promo@x.com", r.PostForm.Get("value"))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.SetCustomField(context.Background(), "crm-42", "596796", "ana+promo@x.com"))
}

func TestSetCustomField_ServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.SetCustomField(context.Background(), "crm-42", "1", "v")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{}, nil)

	_, err := c.SendContent(context.Background(), "id", entity.FieldUpdatePayload{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = NewClient(Config{BaseURL: "http://crm"}, nil).SetCustomField(context.Background(), "id", "", "v")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTimeout(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	c.timeout = 50 * time.Millisecond

	_, err := c.SendContent(context.Background(), "id", entity.FieldUpdatePayload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
