package config

import (
	"time"
)

type CouponConfig struct {
	CodeAttempts     int           `yaml:"code_attempts"`
	QRSize           int           `yaml:"qr_size"`
	ValidityMonths   int           `yaml:"validity_months"`
	MintTimeout      time.Duration `yaml:"mint_timeout"`
	EnrichWorkers    int           `yaml:"enrich_workers"`
	DefaultRejectMsg string        `yaml:"default_reject_msg"`
}

func loadCouponConfig() *CouponConfig {
	return &CouponConfig{
		CodeAttempts:     getEnvAsInt("COUPON_CODE_ATTEMPTS", 10),
		QRSize:           getEnvAsInt("COUPON_QR_SIZE", 300),
		ValidityMonths:   getEnvAsInt("COUPON_VALIDITY_MONTHS", 1),
		MintTimeout:      getEnvAsDuration("COUPON_MINT_TIMEOUT", 5*time.Second),
		EnrichWorkers:    getEnvAsInt("COUPON_ENRICH_WORKERS", 8),
		DefaultRejectMsg: getEnv("COUPON_DEFAULT_REJECT_REASON", "No reason provided"),
	}
}
