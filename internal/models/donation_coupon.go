package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationCouponStatus string

const (
	DonationCouponStatusActive  DonationCouponStatus = "active"
	DonationCouponStatusUsed    DonationCouponStatus = "used"
	DonationCouponStatusExpired DonationCouponStatus = "expired"
)

// DonationCoupon is the single-use entitlement minted from a donation to a partner.
// Status only moves forward: active to used, or active to expired.
type DonationCoupon struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Code       string               `json:"code" bson:"code"`
	QRCode     string               `json:"qr_code" bson:"qr_code"`
	UserID     primitive.ObjectID   `json:"user_id" bson:"user_id"`
	PartnerID  primitive.ObjectID   `json:"partner_id" bson:"partner_id"`
	Amount     float64              `json:"amount" bson:"amount"`
	DonationID primitive.ObjectID   `json:"donation_id" bson:"donation_id"`
	PaymentID  string               `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	Status     DonationCouponStatus `json:"status" bson:"status"`
	ExpiryDate time.Time            `json:"expiry_date" bson:"expiry_date"`
	RedeemedBy *primitive.ObjectID  `json:"redeemed_by,omitempty" bson:"redeemed_by,omitempty"`
	RedeemedAt *time.Time           `json:"redeemed_at,omitempty" bson:"redeemed_at,omitempty"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// Overdue reports whether an active coupon has passed its expiry at now.
func (c *DonationCoupon) Overdue(now time.Time) bool {
	return c.Status == DonationCouponStatusActive && !now.Before(c.ExpiryDate)
}

// CanBeUsed reports whether the coupon is active and not yet expired at now.
func (c *DonationCoupon) CanBeUsed(now time.Time) bool {
	return c.Status == DonationCouponStatusActive && now.Before(c.ExpiryDate)
}

type PartnerSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
	Type  PartnerType        `json:"type"`
}

// DonationCouponView is a coupon with its partner resolved for the donor's wallet view.
type DonationCouponView struct {
	*DonationCoupon
	Partner *PartnerSummary `json:"partner,omitempty"`
}
