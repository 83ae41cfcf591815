package application

import (
	"strings"

	"github.com/mssola/useragent"
)

type DeviceType string

const (
	DeviceAndroid DeviceType = "Android"
	DeviceIPhone  DeviceType = "iPhone"
	DeviceOther   DeviceType = "Other"
)

// InstallRoute is the client page that shows install instructions for d.
func (d DeviceType) InstallRoute() string {
	switch d {
	case DeviceAndroid:
		return "/android-install"
	case DeviceIPhone:
		return "/iphone-install"
	default:
		return "/thank-you"
	}
}

// DetectDevice classifies a User-Agent header. iPads and iPods count as iPhone.
func DetectDevice(userAgent string) DeviceType {
	if strings.TrimSpace(userAgent) == "" {
		return DeviceOther
	}
	ua := useragent.New(userAgent)
	if strings.Contains(ua.OS(), "Android") {
		return DeviceAndroid
	}
	switch ua.Platform() {
	case "iPhone", "iPad", "iPod", "iPod touch":
		return DeviceIPhone
	}
	return DeviceOther
}
