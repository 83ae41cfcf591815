package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// InstallInstructions is the email sent with the Android/iPhone install link.
const InstallInstructions = "install_instructions"

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Branding
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	InstallURL string `json:"InstallURL"`
	DeviceType string `json:"DeviceType"`

	// Request context, shown as "requested from"
	IP        string    `json:"IP"`
	Time      string    `json:"Time"`
	TimeAt    time.Time `json:"TimeAt"`
	UserAgent string    `json:"UserAgent"`
	Location  string    `json:"Location"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || reflect.DeepEqual(value, reflect.Zero(rv.Type()).Interface()) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Exists reports whether all three files of template name are embedded.
func Exists(name string) bool {
	for _, suffix := range []string{".subject.tmpl", ".text.tmpl", ".html.tmpl"} {
		if _, err := FS.Open(name + suffix); err != nil {
			return false
		}
	}
	return true
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		tpl, err := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if err != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, err)
		}
		if err := tpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("exec %q: %w", filename, err)
		}
		return buf.String(), nil
	}
	tpl, err := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", filename, err)
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = renderFile(name+".subject.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderFile(name+".text.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if html, err = renderFile(name+".html.tmpl", true, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
