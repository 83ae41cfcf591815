package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/loyalty-funnel/pkg/mailer"
	mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a job carries neither a subject nor a template.
func SubjectFor(data map[string]any) string {
	switch strings.ToLower(fmt.Sprintf("%v", data["Type"])) {
	case mailtpl.InstallInstructions:
		return "Install your loyalty card"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail fills Email and RecipientEmail from job.To when blank.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
	if v, ok := job.Data["Type"]; (!ok || fmt.Sprintf("%v", v) == "") && job.Template != "" {
		job.Data["Type"] = job.Template
	}
}
