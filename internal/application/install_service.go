package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/pkg/mailer"
	mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
)

// RequestMeta is request context echoed in the install email.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// InstallFields are the CRM custom-field ids written from the install pages.
type InstallFields struct {
	Email      string
	InstallURL string
	DeviceType string
}

type InstallConfig struct {
	DefaultUserID string
	Fields        InstallFields
	MailEnabled   bool
}

// InstallService records install-page events on the CRM contact of the current session.
type InstallService struct {
	Store     repo.SessionStore
	CRM       CRM
	Publisher JobPublisher // nil disables install emails
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics
	cfg       InstallConfig
}

func NewInstallService(store repo.SessionStore, crm CRM, pub JobPublisher, logger *logrus.Logger, m *metrics.Metrics, cfg InstallConfig) *InstallService {
	return &InstallService{
		Store:     store,
		CRM:       crm,
		Publisher: pub,
		Logger:    orDiscard(logger),
		Metrics:   m,
		cfg:       cfg,
	}
}

func (s *InstallService) SendEmail(ctx context.Context, sessionID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	return s.setField(ctx, sessionID, "send_email", s.cfg.Fields.Email, email)
}

// SendInstallURL stores url on the contact and, when mail is enabled, queues
// an install-instructions email for the session's address.
func (s *InstallService) SendInstallURL(ctx context.Context, sessionID, url string, meta RequestMeta) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrURLRequired
	}
	if err := s.setField(ctx, sessionID, "send_install_url", s.cfg.Fields.InstallURL, url); err != nil {
		return err
	}
	s.enqueueInstallEmail(ctx, sessionID, url, meta)
	return nil
}

// SendDeviceType stores deviceType, falling back to the device detected from
// userAgent when deviceType is blank.
func (s *InstallService) SendDeviceType(ctx context.Context, sessionID, deviceType, userAgent string) error {
	deviceType = strings.TrimSpace(deviceType)
	if deviceType == "" {
		d := DetectDevice(userAgent)
		if d == DeviceOther {
			return ErrDeviceTypeRequired
		}
		deviceType = string(d)
	}
	return s.setField(ctx, sessionID, "send_device_type", s.cfg.Fields.DeviceType, deviceType)
}

func (s *InstallService) targetUserID(ctx context.Context, sessionID string) string {
	rec, err := s.Store.GetUser(ctx, sessionID)
	if err == nil && rec.ChatbotUserID != "" {
		return rec.ChatbotUserID
	}
	if err != nil && !errors.Is(err, repo.ErrSessionNotFound) {
		s.Logger.WithError(err).Warn("load user record failed, using default crm id")
	}
	return s.cfg.DefaultUserID
}

func (s *InstallService) setField(ctx context.Context, sessionID, op, fieldID, value string) error {
	userID := s.targetUserID(ctx, sessionID)
	log := s.Logger.WithFields(logrus.Fields{"op": op, "crm_user_id": userID, "field_id": fieldID})
	if userID == "" {
		s.Metrics.CRMCall(op, metrics.OutcomeSkipped)
		log.Error("no crm user id available")
		return ErrUpstream
	}
	if err := s.CRM.SetCustomField(ctx, userID, fieldID, value); err != nil {
		s.Metrics.CRMCall(op, metrics.OutcomeFailure)
		log.WithError(err).Error("crm custom field update failed")
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	s.Metrics.CRMCall(op, metrics.OutcomeSuccess)
	log.Info("crm custom field updated")
	return nil
}

func (s *InstallService) enqueueInstallEmail(ctx context.Context, sessionID, url string, meta RequestMeta) {
	if !s.cfg.MailEnabled || s.Publisher == nil {
		return
	}
	rec, err := s.Store.GetUser(ctx, sessionID)
	if err != nil || rec.Email == "" {
		s.Logger.WithField("session_id", sessionID).Debug("no session email, install email skipped")
		return
	}
	job := mailer.EmailJob{
		To:       rec.Email,
		Template: mailer.TemplateInstallInstructions,
		Data: mailtpl.NewInstallInstructionsData(rec.FirstName, rec.Email, url,
			mailtpl.WithIP(meta.IP),
			mailtpl.WithUserAgent(meta.UserAgent),
			mailtpl.WithTime(time.Now()),
			mailtpl.WithDeviceType(deviceLabel(meta.UserAgent)),
		),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", rec.Email).Warn("enqueue install email failed")
		return
	}
	s.Logger.WithField("to", rec.Email).Info("install email queued")
}

func deviceLabel(userAgent string) string {
	if d := DetectDevice(userAgent); d != DeviceOther {
		return string(d)
	}
	return ""
}
