package application

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/walletpass"
)

// CRM is the subset of the chatbot platform used by the funnel.
type CRM interface {
	SendContent(ctx context.Context, userID string, payload entity.FieldUpdatePayload) (json.RawMessage, error)
	SetCustomField(ctx context.Context, userID, fieldID, value string) error
}

type PassIssuer interface {
	IssuePass(ctx context.Context, in walletpass.PassRequest) (*walletpass.Pass, error)
}

type LinkResolver interface {
	Resolve(ctx context.Context, passURL string) (json.RawMessage, error)
}

// JobPublisher puts a JSON job on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
