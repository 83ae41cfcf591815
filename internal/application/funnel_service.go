package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/walletpass"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
)

type FunnelConfig struct {
	DefaultUserID string
	FlowID        string
	Offer         string
}

// FunnelService runs registration and confirmation against the session store and the CRM.
type FunnelService struct {
	Store   repo.SessionStore
	CRM     CRM
	Passes  PassIssuer // nil disables pass issuance
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	cfg     FunnelConfig
	now     func() time.Time
}

func NewFunnelService(store repo.SessionStore, crm CRM, passes PassIssuer, logger *logrus.Logger, m *metrics.Metrics, cfg FunnelConfig) *FunnelService {
	return &FunnelService{
		Store:   store,
		CRM:     crm,
		Passes:  passes,
		Logger:  orDiscard(logger),
		Metrics: m,
		cfg:     cfg,
		now:     time.Now,
	}
}

// RegisterInput is the signup form as submitted.
type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	BirthMonth    string
	BirthDay      string
	ChatbotUserID string
}

// EffectiveUserID returns id, or the configured default when id is blank.
func (s *FunnelService) EffectiveUserID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.cfg.DefaultUserID
}

// Register stores the user's record in the session. CRM delivery and pass
// issuance are best-effort; only the session write can fail the call.
func (s *FunnelService) Register(ctx context.Context, sessionID string, in RegisterInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Phone == "" {
		s.Metrics.Registration(metrics.OutcomeFailure)
		return ErrMissingFields
	}

	rec := &entity.UserRecord{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         entity.NormalizePhone(in.Phone),
		BirthMonth:    strings.TrimSpace(in.BirthMonth),
		BirthDay:      strings.TrimSpace(in.BirthDay),
		ChatbotUserID: s.EffectiveUserID(in.ChatbotUserID),
		CreatedAt:     s.now().UTC(),
	}
	log := s.Logger.WithField("crm_user_id", rec.ChatbotUserID)

	if _, err := s.notifyCRM(ctx, "register", rec); err != nil {
		log.WithError(err).Warn("crm notification failed during registration")
	}

	loyalty := s.issuePass(ctx, rec)

	if err := s.Store.SaveUser(ctx, sessionID, rec); err != nil {
		log.WithError(err).Error("save user record failed")
		s.Metrics.Registration(metrics.OutcomeFailure)
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	s.storeLoyalty(ctx, sessionID, loyalty, log)
	s.Metrics.Registration(metrics.OutcomeSuccess)
	log.Info("registration stored")
	return nil
}

// Confirm re-sends the stored record to the CRM. A CRM failure is logged and
// the confirmation still succeeds.
func (s *FunnelService) Confirm(ctx context.Context, sessionID string) error {
	rec, err := s.Store.GetUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return ErrNoSessionData
		}
		return fmt.Errorf("load user record: %w", err)
	}
	if rec.ChatbotUserID == "" {
		return ErrNoSessionData
	}

	if _, err := s.notifyCRM(ctx, "confirm", rec); err != nil {
		s.Logger.WithError(err).WithField("crm_user_id", rec.ChatbotUserID).Warn("crm notification failed during confirmation")
	}
	return nil
}

func (s *FunnelService) UserData(ctx context.Context, sessionID string) (*entity.UserRecord, error) {
	rec, err := s.Store.GetUser(ctx, sessionID)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return nil, ErrNoUserData
	}
	return rec, err
}

func (s *FunnelService) LoyaltyData(ctx context.Context, sessionID string) (*entity.LoyaltyData, error) {
	data, err := s.Store.GetLoyalty(ctx, sessionID)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return nil, ErrNoLoyaltyData
	}
	return data, err
}

// SendUserData pushes a client-held record to the CRM and returns the CRM's answer.
// Unlike registration, a CRM failure is reported.
func (s *FunnelService) SendUserData(ctx context.Context, rec *entity.UserRecord) (json.RawMessage, error) {
	if rec == nil || strings.TrimSpace(rec.ChatbotUserID) == "" {
		return nil, ErrMissingID
	}
	out, err := s.notifyCRM(ctx, "send_user_data", rec)
	if err != nil {
		s.Logger.WithError(err).WithField("crm_user_id", rec.ChatbotUserID).Error("send user data failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return out, nil
}

// notifyCRM builds the field-update payload for rec and sends it. The caller
// decides whether the error matters.
func (s *FunnelService) notifyCRM(ctx context.Context, op string, rec *entity.UserRecord) (json.RawMessage, error) {
	if rec.ChatbotUserID == "" {
		s.Metrics.CRMCall(op, metrics.OutcomeSkipped)
		return nil, errors.New("no crm user id configured")
	}
	var birthday string
	if rec.HasBirthday() {
		birthday = BuildBirthday(rec.BirthMonth, rec.BirthDay, s.Logger)
	}
	payload := BuildFieldUpdatePayload(rec, birthday, s.cfg.FlowID)

	out, err := s.CRM.SendContent(ctx, rec.ChatbotUserID, payload)
	if err != nil {
		s.Metrics.CRMCall(op, metrics.OutcomeFailure)
		return nil, err
	}
	s.Metrics.CRMCall(op, metrics.OutcomeSuccess)
	s.Logger.WithFields(logrus.Fields{
		"op":           op,
		"crm_user_id":  rec.ChatbotUserID,
		"actions":      len(payload.Actions),
		"has_birthday": birthday != "",
	}).Info("crm fields updated")
	return out, nil
}

// issuePass returns nil when passes are disabled or issuance failed.
func (s *FunnelService) issuePass(ctx context.Context, rec *entity.UserRecord) *entity.LoyaltyData {
	if s.Passes == nil {
		s.Metrics.Pass(metrics.OutcomeSkipped)
		return nil
	}
	pass, err := s.Passes.IssuePass(ctx, walletpass.PassRequest{
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		Phone:        rec.Phone,
		CurrentOffer: s.cfg.Offer,
	})
	if err != nil {
		s.Metrics.Pass(metrics.OutcomeFailure)
		s.Logger.WithError(err).WithField("email", rec.Email).Warn("wallet pass issuance failed")
		return nil
	}
	s.Metrics.Pass(metrics.OutcomeSuccess)

	now := s.now().UTC()
	return &entity.LoyaltyData{
		ID:        pass.SerialNumber,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Card:      entity.LoyaltyCard{URL: pass.URL},
		CustomFields: entity.LoyaltyCustomFields{
			Ofertas:   s.cfg.Offer,
			IDTarjeta: pass.SerialNumber,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// storeLoyalty replaces the session's loyalty entry. A nil data removes the
// entry so a pass from an earlier registration never outlives its user record.
func (s *FunnelService) storeLoyalty(ctx context.Context, sessionID string, data *entity.LoyaltyData, log *logrus.Entry) {
	if data == nil {
		if err := s.Store.DeleteLoyalty(ctx, sessionID); err != nil {
			log.WithError(err).Warn("clear stale loyalty data failed")
		}
		return
	}
	if err := s.Store.SaveLoyalty(ctx, sessionID, data); err != nil {
		log.WithError(err).Warn("save loyalty data failed")
	}
}

func orDiscard(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	d := logrus.New()
	d.SetOutput(io.Discard)
	return d
}
