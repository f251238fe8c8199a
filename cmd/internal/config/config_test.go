package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "atos", cfg.DefaultCompany)
	assert.Equal(t, []string{"atos", "urpea"}, cfg.SupportedCompanies)
	assert.True(t, cfg.DuplicateCheck)
	assert.True(t, cfg.EmailNotifications)
	assert.False(t, cfg.AdminNotifications)
	assert.Equal(t, "no-reply@upra.fr", cfg.EmailFromAddress)
	assert.Equal(t, 25, cfg.DefaultPageSize)
	assert.Equal(t, 200, cfg.MaxPageSize)
	assert.Equal(t, 2*time.Second, cfg.GeoIPTimeout)
	assert.Equal(t, "@daily", cfg.RetentionSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoadNormalizesCompanies(t *testing.T) {
	t.Setenv("DEFAULT_COMPANY", " URPEA ")
	t.Setenv("SUPPORTED_COMPANIES", "Atos, urpea ,,ACME")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "urpea", cfg.DefaultCompany)
	assert.Equal(t, []string{"atos", "urpea", "acme"}, cfg.SupportedCompanies)
	assert.Equal(t, log.DEBUG, cfg.GommonLevel())
}

func TestLoadRejectsInconsistentValues(t *testing.T) {
	t.Setenv("ADMIN_NOTIFICATIONS", "true")
	t.Setenv("DATA_RETENTION_DAYS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_EMAIL")
	assert.Contains(t, err.Error(), "DATA_RETENTION_DAYS")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "many")
	_, err := Load()
	require.Error(t, err)
}
