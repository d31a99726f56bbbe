package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is a generic discount code, unrelated to donation coupons.
type Coupon struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code          string             `json:"code" bson:"code"`
	Description   string             `json:"description" bson:"description"`
	DiscountType  DiscountType       `json:"discount_type" bson:"discount_type"`
	DiscountValue float64            `json:"discount_value" bson:"discount_value"`
	MinPurchase   float64            `json:"min_purchase" bson:"min_purchase"`
	MaxDiscount   float64            `json:"max_discount,omitempty" bson:"max_discount,omitempty"`
	ValidFrom     time.Time          `json:"valid_from" bson:"valid_from"`
	ValidUntil    time.Time          `json:"valid_until" bson:"valid_until"`
	UsageLimit    int64              `json:"usage_limit" bson:"usage_limit"`
	UsedCount     int64              `json:"used_count" bson:"used_count"`
	IsActive      bool               `json:"is_active" bson:"is_active"`
	CreatedBy     primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CouponFilter struct {
	ActiveOnly bool
	CreatedBy  *primitive.ObjectID
}
