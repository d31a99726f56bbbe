package routes

import (
	handlers "carefoundation/internal/handlers/shared"
	"carefoundation/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Partner        *handlers.PartnerHandler
	Campaign       *handlers.CampaignHandler
	Donation       *handlers.DonationHandler
	Payment        *handlers.PaymentHandler
	Claim          *handlers.ClaimHandler
	DonationCoupon *handlers.DonationCouponHandler
	Wallet         *handlers.WalletHandler
	Coupon         *handlers.CouponHandler
}

// SetupAPIRoutes mounts every /api/v1 route on r.
func SetupAPIRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	auth := middleware.AuthRequired(jwtSecret)
	optional := middleware.OptionalAuth(jwtSecret)
	admin := middleware.AdminRequired()

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/refresh", h.Auth.RefreshToken)
		authRoutes.GET("/me", auth, h.Auth.Me)
	}

	users := r.Group("/users", auth, admin)
	{
		users.GET("", h.Auth.ListUsers)
		users.PUT("/:id/approve", h.Auth.ApproveUser)
	}

	partners := r.Group("/partners")
	{
		partners.POST("", auth, h.Partner.Create)
		partners.GET("/me", auth, h.Partner.GetMine)
		partners.GET("", optional, h.Partner.List)
		partners.GET("/:id", optional, h.Partner.Get)
		partners.PUT("/:id/status", auth, admin, h.Partner.UpdateStatus)
		partners.POST("/:id/photo", auth, h.Partner.UploadPhoto)
	}

	campaigns := r.Group("/campaigns")
	{
		campaigns.POST("", auth, admin, h.Campaign.Create)
		campaigns.GET("", h.Campaign.List)
		campaigns.GET("/:id", h.Campaign.Get)
	}

	donations := r.Group("/donations")
	{
		donations.POST("", optional, h.Donation.Create)
		donations.GET("/my-donations", auth, h.Donation.MyDonations)
		donations.GET("", auth, admin, h.Donation.List)
		donations.GET("/:id", auth, admin, h.Donation.Get)
	}

	razorpay := r.Group("/razorpay")
	{
		razorpay.POST("/create-order", optional, h.Payment.CreateOrder)
		razorpay.POST("/verify-payment", optional, h.Payment.VerifyPayment)
		razorpay.GET("/payment/:paymentId", optional, h.Payment.PaymentStatus)
		razorpay.POST("/refund", auth, admin, h.Payment.Refund)
	}

	// The claim endpoint is open to any signed-in user: the role check is the first
	// eligibility rule and reports its own error code.
	claims := r.Group("/coupon-claims", auth)
	{
		claims.POST("/claim", h.Claim.Claim)
		claims.GET("/my-claims", h.Claim.MyClaims)
		claims.GET("/pending", admin, h.Claim.Pending)
		claims.GET("", admin, h.Claim.List)
		claims.PUT("/:id/approve", admin, h.Claim.Approve)
		claims.PUT("/:id/reject", admin, h.Claim.Reject)
		claims.PUT("/:id/mark-paid", admin, h.Claim.MarkPaid)
	}

	donationCoupons := r.Group("/donation-coupons", auth)
	{
		donationCoupons.GET("/my-coupons", h.DonationCoupon.MyCoupons)
		donationCoupons.GET("/:id", h.DonationCoupon.Get)
	}

	wallet := r.Group("/wallet", auth)
	{
		wallet.GET("/me", h.Wallet.GetMine)
		wallet.POST("/withdraw", middleware.RoleRequired("partner"), h.Wallet.Withdraw)
	}

	coupons := r.Group("/coupons")
	{
		coupons.POST("", auth, admin, h.Coupon.Create)
		coupons.GET("", auth, admin, h.Coupon.List)
		coupons.POST("/validate", h.Coupon.Validate)
		coupons.POST("/redeem", auth, h.Coupon.Redeem)
	}
}
