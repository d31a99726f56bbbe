package utils

import "time"

// Application Constants
const (
	AppName    = "CareFoundation"
	AppVersion = "1.0.0"

	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 6
	PasswordMaxLength  = 128

	// Donation coupons
	DonationCouponPrefix      = "COUPON"
	DonationCouponGroups      = 3
	DonationCouponGroupLength = 4
	DonationCouponAlphabet    = "0123456789ABCDEF"

	// Generic discount coupons
	DiscountCodeLength = 8

	// File Upload
	MaxImageSize     = 10 * 1024 * 1024 // 10MB
	ThumbnailMaxSize = 320
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrInvalidToken       = "invalid token"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "conflict"
	ErrValidationFailed   = "validation failed"
	ErrFileUploadFailed   = "file upload failed"
	ErrPaymentFailed      = "payment failed"
)

// Cache Keys
const (
	CachePaymentVerifyPrefix = "payment_verify:"
)

// Event Types
const (
	EventClaimCreated  = "claim_created"
	EventClaimApproved = "claim_approved"
	EventClaimRejected = "claim_rejected"
	EventClaimPaid     = "claim_paid"
	EventCouponMinted  = "coupon_minted"
)

var AllowedImageTypes = []string{"jpg", "jpeg", "png"}
