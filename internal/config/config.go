package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       *AppConfig       `yaml:"app"`
	Database  *DatabaseConfig  `yaml:"database"`
	Redis     *RedisConfig     `yaml:"redis"`
	SMTP      *SMTPConfig      `yaml:"smtp"`
	SMS       *SMSConfig       `yaml:"sms"`
	Payment   *PaymentConfig   `yaml:"payment"`
	Storage   *StorageConfig   `yaml:"storage"`
	WebSocket *WebSocketConfig `yaml:"websocket"`
	Security  *SecurityConfig  `yaml:"security"`
	Coupon    *CouponConfig    `yaml:"coupon"`
}

type AppConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Environment  string        `yaml:"environment"`
	Port         int           `yaml:"port"`
	Host         string        `yaml:"host"`
	BaseURL      string        `yaml:"base_url"`
	Debug        bool          `yaml:"debug"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	Timezone     string        `yaml:"timezone"`
	Currency     string        `yaml:"currency"`
	AdminEmail   string        `yaml:"admin_email"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type SecurityConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	JWTAccessTokenTTL  time.Duration `yaml:"jwt_access_token_ttl"`
	JWTRefreshTokenTTL time.Duration `yaml:"jwt_refresh_token_ttl"`
	PasswordMinLength  int           `yaml:"password_min_length"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	TrustedProxies     []string      `yaml:"trusted_proxies"`
}

func Load() (*Config, error) {
	config := &Config{
		App:       loadAppConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		SMTP:      loadSMTPConfig(),
		SMS:       loadSMSConfig(),
		Payment:   loadPaymentConfig(),
		Storage:   loadStorageConfig(),
		WebSocket: loadWebSocketConfig(),
		Security:  loadSecurityConfig(),
		Coupon:    loadCouponConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:         getEnv("APP_NAME", "CareFoundation"),
		Version:      getEnv("APP_VERSION", "1.0.0"),
		Environment:  getEnv("APP_ENV", "development"),
		Port:         getEnvAsInt("APP_PORT", 8080),
		Host:         getEnv("APP_HOST", "localhost"),
		BaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:        getEnvAsBool("APP_DEBUG", true),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		Timezone:     getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		Currency:     getEnv("APP_CURRENCY", "INR"),
		AdminEmail:   getEnv("APP_ADMIN_EMAIL", ""),
		ReadTimeout:  getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		JWTAccessTokenTTL:  getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
		JWTRefreshTokenTTL: getEnvAsDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		PasswordMinLength:  getEnvAsInt("PASSWORD_MIN_LENGTH", 6),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
