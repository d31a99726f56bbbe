package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carefoundation/internal/config"
	handlers "carefoundation/internal/handlers/shared"
	"carefoundation/internal/metrics"
	"carefoundation/internal/middleware"
	"carefoundation/internal/services"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/qrcode"
	"carefoundation/pkg/websocket"
	"carefoundation/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLog); err != nil {
		appLog.WithError(err).Fatal("Server stopped")
	}
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]healthCheck{}

	repos, db, err := openRepositories(ctx, cfg.Database, appLog)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				appLog.WithError(err).Warn("Failed to close MongoDB connection")
			}
		}()
		checks["mongodb"] = db.Ping
	}

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	smsProvider, err := newSMSProvider(ctx, cfg.SMS)
	if err != nil {
		appLog.WithError(err).Warn("SMS disabled")
		smsProvider = nil
	}

	var replayStore services.KeyValueStore
	if redisCache, err := newRedis(cfg.Redis); err != nil {
		appLog.WithError(err).Warn("Redis unavailable, payment replay guard disabled")
	} else if redisCache != nil {
		defer redisCache.Close()
		replayStore = redisCache
		checks["redis"] = redisCache.Ping
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	hub := websocket.NewHub(appLog)
	go hub.Run(ctx)
	appMetrics.TrackWebsocketClients(registry, hub.ClientCount)

	emailer, err := newMailer(cfg.SMTP)
	if err != nil {
		appLog.WithError(err).Warn("Email disabled")
		emailer = nil
	}

	effects := services.NewEffectRunner(appLog, appMetrics)
	notifications := services.NewNotificationService(emailer, smsProvider, hub, cfg.App.Currency, appLog)

	authService := services.NewAuthService(repos.Users, notifications, effects, services.AuthConfig{
		JWTSecret:  cfg.Security.JWTSecret,
		AccessTTL:  cfg.Security.JWTAccessTokenTTL,
		RefreshTTL: cfg.Security.JWTRefreshTokenTTL,
	}, appLog)
	userService := services.NewUserService(repos.Users, appLog)
	partnerService := services.NewPartnerService(repos.Partners, repos.Users, store, cfg.Storage.MaxImageSize, appLog)
	campaignService := services.NewCampaignService(repos.Campaigns, appLog)

	minter := services.NewCouponMinter(repos.DonationCoupons, repos.Partners, qrcode.NewPNGRenderer(cfg.Coupon.QRSize), services.MintConfig{
		CodeAttempts:   cfg.Coupon.CodeAttempts,
		ValidityMonths: cfg.Coupon.ValidityMonths,
		Timeout:        cfg.Coupon.MintTimeout,
	}, appLog)
	donationService := services.NewDonationService(repos, minter, notifications, effects, appMetrics, services.DonationConfig{
		Currency:  cfg.Payment.Currency,
		MinAmount: cfg.Payment.MinAmount,
	}, appLog)
	paymentService := services.NewPaymentService(
		newGateway(cfg.Payment),
		donationService,
		repos.Donations,
		services.NewReplayGuard(replayStore, cfg.Redis.ReplayGuardTTL, appLog),
		appMetrics,
		services.PaymentConfig{Currency: cfg.Payment.Currency, MinAmount: cfg.Payment.MinAmount},
		appLog,
	)

	walletService := services.NewWalletService(repos.Wallets, appLog)
	claimService := services.NewClaimService(repos, walletService, notifications, effects, appMetrics, services.ClaimConfig{
		DefaultRejectReason: cfg.Coupon.DefaultRejectMsg,
		EnrichWorkers:       cfg.Coupon.EnrichWorkers,
	}, appLog)
	donationCouponService := services.NewDonationCouponService(repos.DonationCoupons, repos.Partners, appLog)
	couponService := services.NewCouponService(repos.Coupons, appLog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLog))
	router.Use(middleware.MetricsMiddleware(appMetrics))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	v1 := router.Group("/api/v1")
	routes.SetupAPIRoutes(v1, &routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService, userService),
		Partner:        handlers.NewPartnerHandler(partnerService, cfg.Storage.MaxImageSize),
		Campaign:       handlers.NewCampaignHandler(campaignService),
		Donation:       handlers.NewDonationHandler(donationService),
		Payment:        handlers.NewPaymentHandler(paymentService),
		Claim:          handlers.NewClaimHandler(claimService),
		DonationCoupon: handlers.NewDonationCouponHandler(donationCouponService),
		Wallet:         handlers.NewWalletHandler(walletService),
		Coupon:         handlers.NewCouponHandler(couponService),
	}, cfg.Security.JWTSecret)

	if cfg.WebSocket.Enabled {
		wsHandler := websocket.NewHandler(hub, websocket.Config{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			PingInterval:    cfg.WebSocket.PingInterval,
			PongTimeout:     cfg.WebSocket.PongTimeout,
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
		}, appLog)
		router.GET(cfg.WebSocket.Path, middleware.AuthRequired(cfg.Security.JWTSecret), wsHandler.HandleWebSocket)
	}

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", healthHandler(cfg.App.Version, checks, hub.ClientCount))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
