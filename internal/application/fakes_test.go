package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/walletpass"
)

type sentContent struct {
	UserID  string
	Payload entity.FieldUpdatePayload
}

type setField struct {
	UserID, FieldID, Value string
}

type fakeCRM struct {
	mu      sync.Mutex
	err     error
	sent    []sentContent
	fields  []setField
	respond json.RawMessage
}

func (f *fakeCRM) SendContent(_ context.Context, userID string, payload entity.FieldUpdatePayload) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentContent{UserID: userID, Payload: payload})
	if f.err != nil {
		return nil, f.err
	}
	if f.respond == nil {
		return json.RawMessage(`{"success":true}`), nil
	}
	return f.respond, nil
}

func (f *fakeCRM) SetCustomField(_ context.Context, userID, fieldID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = append(f.fields, setField{userID, fieldID, value})
	return f.err
}

type fakePasses struct {
	err error
	got []walletpass.PassRequest
}

func (f *fakePasses) IssuePass(_ context.Context, in walletpass.PassRequest) (*walletpass.Pass, error) {
	f.got = append(f.got, in)
	if f.err != nil {
		return nil, f.err
	}
	return &walletpass.Pass{SerialNumber: "SN-1", URL: "https://pass.example/SN-1"}, nil
}

type fakePublisher struct {
	err  error
	jobs []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.jobs = append(f.jobs, body)
	return f.err
}

var errBoom = errors.New("boom")
