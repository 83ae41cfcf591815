package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/loyalty-funnel/pkg/mailer"
	mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"
)

type sent struct {
	To, Subject, Text, HTML string
}

type recordingSender struct {
	err  error
	sent []sent
}

func (s *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sent{to, subject, text, html})
	return nil
}

type staticGeo struct{ geo mailtpl.Geo }

func (s staticGeo) Lookup(context.Context, string) (mailtpl.Geo, error) { return s.geo, nil }

func newProcessor(sender mailer.Sender) *Processor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Processor{
		Sender:   sender,
		Resolver: staticGeo{mailtpl.Geo{City: "Austin", Region: "Texas", Country: "United States", Timezone: "America/Chicago"}},
		Branding: mailtpl.Branding{CompanyName: "Acme Rewards"},
		Logger:   logger,
	}
}

func installJob(t *testing.T) []byte {
	t.Helper()
	job := mailer.EmailJob{
		To:       "ana@example.com",
		Template: mailer.TemplateInstallInstructions,
		Data: mailtpl.NewInstallInstructionsData("Ana", "ana@example.com", "https://pass.example/abc",
			mailtpl.WithIP("203.0.113.7"),
			mailtpl.WithTime(time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)),
			mailtpl.WithDeviceType("iPhone"),
		),
	}
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestProcess_RendersTemplate(t *testing.T) {
	s := &recordingSender{}
	p := newProcessor(s)

	require.Equal(t, Ack, p.Process(context.Background(), installJob(t)))
	require.Len(t, s.sent, 1)
	msg := s.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Acme Rewards: install your wallet card", msg.Subject)
	assert.Contains(t, msg.Text, "https://pass.example/abc")
	assert.Contains(t, msg.Text, "Austin, Texas, United States")
	assert.Contains(t, msg.HTML, "https://pass.example/abc")
}

func TestProcess_RawJob(t *testing.T) {
	s := &recordingSender{}
	p := newProcessor(s)

	body := []byte(`{"to":"ana@example.com","text":"hello"}`)
	require.Equal(t, Ack, p.Process(context.Background(), body))
	assert.Equal(t, "Notification", s.sent[0].Subject)
	assert.Equal(t, "hello", s.sent[0].Text)
}

func TestProcess_Decisions(t *testing.T) {
	p := newProcessor(&recordingSender{})
	assert.Equal(t, Drop, p.Process(context.Background(), []byte(`{not json`)))
	assert.Equal(t, Drop, p.Process(context.Background(), []byte(`{"template":"install_instructions"}`)))
	assert.Equal(t, Drop, p.Process(context.Background(), []byte(`{"to":"a@b.c","template":"nope"}`)))
	assert.Equal(t, Drop, p.Process(context.Background(), []byte(`{"to":"a@b.c"}`)))

	p = newProcessor(&recordingSender{err: errors.New("503 from mailgun")})
	assert.Equal(t, Requeue, p.Process(context.Background(), installJob(t)))

	p = newProcessor(&recordingSender{err: mailer.ErrNotConfigured})
	assert.Equal(t, Drop, p.Process(context.Background(), installJob(t)))
	assert.Equal(t, "drop", Drop.String())
}
