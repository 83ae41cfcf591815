package mailer

import mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"

// TemplateInstallInstructions is the only template the funnel queues.
const TemplateInstallInstructions = mailtpl.InstallInstructions

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject+Text (and optionally HTML) must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
