package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want DeviceType
	}{
		{"android", "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", DeviceAndroid},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1", DeviceIPhone},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1", DeviceIPhone},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", DeviceOther},
		{"empty", "", DeviceOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDevice(tt.ua))
		})
	}
}

func TestInstallRoute(t *testing.T) {
	assert.Equal(t, "/android-install", DeviceAndroid.InstallRoute())
	assert.Equal(t, "/iphone-install", DeviceIPhone.InstallRoute())
	assert.Equal(t, "/thank-you", DeviceOther.InstallRoute())
}
