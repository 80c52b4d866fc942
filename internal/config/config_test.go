package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", "5432")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("DATABASE_PASSWORD", "postgres")
	t.Setenv("DATABASE_NAME", "salieslist")
	t.Setenv("DATABASE_SSL_MODE", "disable")
	t.Setenv("STRIPE_KEY", "sk_test_x")
	t.Setenv("STRIPE_ENDPOINT_SECRET", "whsec_x")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_x")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("SUPPORT_EMAIL", "support@example.com")
	t.Setenv("NO_REPLY_EMAIL", "no-reply@example.com")
	t.Setenv("MACHINE_TOKEN", "secret")
	t.Setenv("ENV", "dev")
	t.Setenv("SITE_NAME", "Salies List")
	t.Setenv("SITE_HOST", "salies-list.example")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(15), cfg.PricePerItem)
	assert.Equal(t, 100, cfg.MinPurchaseCount)
	assert.Equal(t, 5, cfg.PreviewLimit)
	assert.Equal(t, 50000, cfg.ExportLimit)
	assert.Equal(t, 500, cfg.ImportBatchSize)
	assert.False(t, cfg.MaintenanceMode)
	// dev serves over plain http
	assert.Equal(t, "http://", cfg.URLProtocol)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("PRICE_PER_ITEM", "20")
	t.Setenv("MIN_PURCHASE_COUNT", "50")
	t.Setenv("MAINTENANCE_MODE", "true")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(20), cfg.PricePerItem)
	assert.Equal(t, 50, cfg.MinPurchaseCount)
	assert.True(t, cfg.MaintenanceMode)
	assert.Equal(t, "https://", cfg.URLProtocol)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_KEY", "")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_KEY cannot be empty")
}

func TestLoadConfigBadNumber(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRICE_PER_ITEM", "abc")
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRICE_PER_ITEM must be a number")
}
