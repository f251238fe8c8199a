package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type sanitizeTarget struct {
	Name    string
	Remarks *string
	Tags    []string
	Count   int
}

func TestSanitizeTrimsStringFields(t *testing.T) {
	remarks := "  verified \n"
	target := sanitizeTarget{Name: "  Jean ", Remarks: &remarks, Tags: []string{" a", "b "}, Count: 3}
	Sanitize(&target)

	assert.Equal(t, "Jean", target.Name)
	assert.Equal(t, "verified", *target.Remarks)
	assert.Equal(t, []string{"a", "b"}, target.Tags)
	assert.Equal(t, 3, target.Count)
}

func TestSanitizePanicsOnNonPointer(t *testing.T) {
	assert.Panics(t, func() { Sanitize(sanitizeTarget{}) })
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "2023-11-14 22:13:20", FormatDateTime(1_700_000_000_000))
	assert.Equal(t, "2023-11-14T22:13:20Z", FormatEpoch(1_700_000_000_000))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "atos", NormalizeCompany("  ATOS "))
	assert.Equal(t, "jean@x.fr", NormalizeEmail(" Jean@X.fr"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		clientIP  string
		forwarded string
		remote    string
		expected  string
	}{
		{"client header wins", "81.2.69.160", "8.8.8.8", "10.0.0.1:1234", "81.2.69.160"},
		{"first public forwarded", "", "10.0.0.3, 192.168.1.4, 8.8.4.4", "10.0.0.1:1234", "8.8.4.4"},
		{"private only falls back to remote", "", "10.0.0.3", "172.16.0.9:80", "172.16.0.9"},
		{"mapped v4", "::ffff:81.2.69.160", "", "", "81.2.69.160"},
		{"garbage", "not-an-ip", "", "pipe", "Unknown"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.clientIP != "" {
				req.Header.Set(HeaderClientIP, tt.clientIP)
			}
			if tt.forwarded != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.forwarded)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.expected, ClientIP(c, "Unknown"))
		})
	}
}
