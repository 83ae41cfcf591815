package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
	"github.com/oksasatya/loyalty-funnel/pkg/mailer"
	mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"
)

// Decision is what the consumer does with a delivery after processing.
type Decision int

const (
	Ack Decision = iota
	// Requeue is for failures that may succeed later (send errors).
	Requeue
	// Drop is for messages that will never succeed (bad JSON, unknown template).
	Drop
)

func (d Decision) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

var (
	errNoRecipient = errors.New("email job has no recipient")
	errNoContent   = errors.New("email job has neither template nor text")
)

type Processor struct {
	Sender      mailer.Sender
	Resolver    mailtpl.GeoResolver
	Branding    mailtpl.Branding
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Process renders and sends one queued EmailJob.
func (p *Processor) Process(ctx context.Context, body []byte) Decision {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		p.Logger.WithError(err).Warn("bad message")
		return Drop
	}
	log := p.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := p.render(ctx, &job)
	if err != nil {
		log.WithError(err).Error("render failed")
		return Drop
	}

	timeout := p.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Sender.Send(c, job.To, subject, text, html); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			log.WithError(err).Error("send failed, mailer not configured")
			return Drop
		}
		log.WithError(err).Warn("send failed, requeueing")
		return Requeue
	}
	log.Info("email sent")
	return Ack
}

func (p *Processor) render(ctx context.Context, job *mailer.EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", errNoRecipient
	}
	helpers.EnsureRecipientAndEmail(job)
	p.Branding.Apply(job.Data)
	helpers.LocalizeTimesIfPossible(ctx, p.Resolver, job.Data)

	if job.Template != "" {
		if !mailtpl.Exists(job.Template) {
			return "", "", "", errors.New("unknown template " + job.Template)
		}
		return mailtpl.Render(job.Template, job.Data)
	}
	if job.Text == "" && job.HTML == "" {
		return "", "", "", errNoContent
	}
	subject = job.Subject
	if subject == "" {
		subject = helpers.SubjectFor(job.Data)
	}
	return subject, job.Text, job.HTML, nil
}
