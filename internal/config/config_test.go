package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "CareFoundation", cfg.App.Name)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 1.0, cfg.Payment.MinAmount)
	assert.Equal(t, 1, cfg.Coupon.ValidityMonths)
	assert.Equal(t, "No reason provided", cfg.Coupon.DefaultRejectMsg)
	assert.Equal(t, []string{"*"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "false")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PAYMENT_MIN_AMOUNT", "10.5")
	t.Setenv("COUPON_VALIDITY_MONTHS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.App.Port)
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, 15*time.Minute, cfg.Security.JWTAccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, 10.5, cfg.Payment.MinAmount)
	assert.Equal(t, 3, cfg.Coupon.ValidityMonths)
}

func TestEnvHelpers_IgnoreMalformedValues(t *testing.T) {
	t.Setenv("BAD_INT", "many")
	t.Setenv("BAD_BOOL", "perhaps")
	t.Setenv("BAD_DURATION", "soon")
	t.Setenv("BAD_FLOAT", "1,5")

	assert.Equal(t, 7, getEnvAsInt("BAD_INT", 7))
	assert.True(t, getEnvAsBool("BAD_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("BAD_DURATION", time.Second))
	assert.Equal(t, 2.5, getEnvAsFloat64("BAD_FLOAT", 2.5))
}

func TestPaymentConfigured(t *testing.T) {
	cfg := loadPaymentConfig()
	assert.False(t, cfg.Configured())

	cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret = "rzp_test_key", "secret"
	assert.True(t, cfg.Configured())

	cfg.DefaultProvider = "stripe"
	assert.False(t, cfg.Configured())
	cfg.Stripe.SecretKey = "sk_test_123"
	assert.True(t, cfg.Configured())
}
