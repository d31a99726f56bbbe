package config

type PaymentConfig struct {
	DefaultProvider string          `yaml:"default_provider"`
	Razorpay        *RazorpayConfig `yaml:"razorpay"`
	Stripe          *StripeConfig   `yaml:"stripe"`
	Currency        string          `yaml:"currency"`
	MinAmount       float64         `yaml:"min_amount"`
}

type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
	Webhook   string `yaml:"webhook_secret"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		DefaultProvider: getEnv("PAYMENT_DEFAULT_PROVIDER", "razorpay"),
		Razorpay: &RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			Webhook:   getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		},
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Currency:  getEnv("PAYMENT_CURRENCY", "INR"),
		MinAmount: getEnvAsFloat64("PAYMENT_MIN_AMOUNT", 1),
	}
}

// Configured reports whether the selected provider has credentials.
func (p *PaymentConfig) Configured() bool {
	switch p.DefaultProvider {
	case "stripe":
		return p.Stripe.SecretKey != ""
	default:
		return p.Razorpay.KeyID != "" && p.Razorpay.KeySecret != ""
	}
}
