package templates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInstallInstructions(t *testing.T) {
	require.True(t, Exists(InstallInstructions))

	data := NewInstallInstructionsData("Ana", "ana@x.com", "https://pw/abc?x=1&y=2",
		WithTime(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)),
		WithLocation("Bogota, Colombia"),
		WithDeviceType("Android"),
	)
	Branding{CompanyName: "Nacho Club", SupportURL: "https://help.example"}.Apply(data)

	subject, text, html, err := Render(InstallInstructions, data)
	require.NoError(t, err)
	assert.Equal(t, "Nacho Club: install your wallet card", subject)
	assert.Contains(t, text, "Hi Ana,")
	assert.Contains(t, text, "https://pw/abc?x=1&y=2")
	assert.Contains(t, text, "Requested on 05 March 2024, 14:30 from Bogota, Colombia (Android).")
	assert.Contains(t, html, "https://pw/abc?x=1&amp;y=2")
	assert.Contains(t, html, "Nacho Club")
}

func TestRenderFallbacks(t *testing.T) {
	data := NewInstallInstructionsData("", "ana@x.com", "https://pw/abc")

	subject, text, _, err := Render(InstallInstructions, data)
	require.NoError(t, err)
	assert.Equal(t, "Your loyalty card: install your wallet card", subject)
	assert.Contains(t, text, "Hi there,")
	assert.NotContains(t, text, "Requested on")
}

func TestBrandingKeepsExistingValues(t *testing.T) {
	data := map[string]any{"CompanyName": "Override", "AppName": ""}
	Branding{CompanyName: "Nacho Club", AppName: "funnel"}.Apply(data)
	assert.Equal(t, "Override", data["CompanyName"])
	assert.Equal(t, "funnel", data["AppName"])
}

func TestIPAPIResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","city":"Mountain View","regionName":"California","country":"United States","timezone":"America/Los_Angeles"}`))
	}))
	t.Cleanup(srv.Close)

	r := IPAPIResolver{BaseURL: srv.URL}
	g, err := r.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "Mountain View, California, United States", FormatGeo(g))
	assert.Equal(t, "America/Los_Angeles", g.Timezone)

	_, err = r.Lookup(context.Background(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrPrivateIP)
}
