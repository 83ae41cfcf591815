package templates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/loyalty-funnel/config"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithDeviceType(dt string) Option { return func(d *EmailData) { d.DeviceType = dt } }

func WithLocation(loc string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(loc); s != "" {
			d.Location = s
		}
	}
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			WithLocation(FormatGeo(g))(d)
		}
	}
}

// NewInstallInstructionsData builds the job data for an install-link email.
// Branding is filled in by the worker.
func NewInstallInstructionsData(name, email, installURL string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           InstallInstructions,
		InstallURL:     installURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

// Branding is the company block rendered in every email footer.
type Branding struct {
	CompanyName    string
	CompanyAddress string
	AppName        string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
	UnsubscribeURL string
}

func BrandingFromConfig(cfg *config.Config) Branding {
	return Branding{
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
}

// Apply sets every branding key of data that is missing or blank.
func (b Branding) Apply(data map[string]any) {
	set := func(k, v string) {
		if cur, ok := data[k]; !ok || fmt.Sprintf("%v", cur) == "" {
			data[k] = v
		}
	}
	set("CompanyName", b.CompanyName)
	set("CompanyAddress", b.CompanyAddress)
	set("AppName", b.AppName)
	set("LogoURL", b.LogoURL)
	set("SupportURL", b.SupportURL)
	set("PrivacyURL", b.PrivacyURL)
	set("UnsubscribeURL", b.UnsubscribeURL)
}
