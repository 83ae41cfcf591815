package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// AndroidLinkService resolves the Android install link for a wallet-pass URL.
type AndroidLinkService struct {
	Resolver LinkResolver
	Logger   *logrus.Logger
}

func NewAndroidLinkService(r LinkResolver, logger *logrus.Logger) *AndroidLinkService {
	return &AndroidLinkService{Resolver: r, Logger: orDiscard(logger)}
}

// Link returns the link service's body as received.
func (s *AndroidLinkService) Link(ctx context.Context, passURL string) (json.RawMessage, error) {
	passURL = strings.TrimSpace(passURL)
	if passURL == "" {
		return nil, ErrURLRequired
	}
	body, err := s.Resolver.Resolve(ctx, passURL)
	if err != nil {
		s.Logger.WithError(err).WithField("url", passURL).Error("android link resolution failed")
		return nil, err
	}
	return body, nil
}
