package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carefoundation"

type Metrics struct {
	HTTPRequestDuration  *prometheus.HistogramVec
	DonationsTotal       *prometheus.CounterVec
	CouponsMinted        prometheus.Counter
	CouponMintSkipped    *prometheus.CounterVec
	ClaimTransitions     *prometheus.CounterVec
	EffectFailures       *prometheus.CounterVec
	PaymentVerifications *prometheus.CounterVec
	WebsocketClients     prometheus.GaugeFunc
}

// New registers the collectors on reg. Passing a fresh prometheus.NewRegistry keeps
// tests isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		DonationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donations_total",
			Help:      "Completed donations by payment method.",
		}, []string{"method"}),
		CouponsMinted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_coupons_minted_total",
			Help:      "Donation coupons successfully minted.",
		}),
		CouponMintSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_coupon_mint_skipped_total",
			Help:      "Donations with a partner target that produced no coupon, by reason.",
		}, []string{"reason"}),
		ClaimTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_claim_transitions_total",
			Help:      "Coupon claim state changes by target status.",
		}, []string{"status"}),
		EffectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_commit_effect_failures_total",
			Help:      "Post-commit side effects that failed or panicked.",
		}, []string{"effect"}),
		PaymentVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Gateway payment verifications by result.",
		}, []string{"result"}),
	}
}

// NewNop returns collectors registered nowhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// TrackWebsocketClients exposes count as a gauge on reg.
func (m *Metrics) TrackWebsocketClients(reg prometheus.Registerer, count func() int) {
	m.WebsocketClients = promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Currently connected websocket clients.",
	}, func() float64 { return float64(count()) })
}
