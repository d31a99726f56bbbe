package validators

import "time"

type ClaimCouponRequest struct {
	CouponCode string `json:"coupon_code" validate:"required,coupon_code"`
}

type RejectClaimRequest struct {
	Reason string `json:"rejection_reason" validate:"omitempty,max=500"`
}

type CouponCreateRequest struct {
	Code          string    `json:"code" validate:"omitempty,discount_code"`
	Description   string    `json:"description" validate:"omitempty,max=500"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue float64   `json:"discount_value" validate:"required,gt=0"`
	MinPurchase   float64   `json:"min_purchase" validate:"omitempty,min=0"`
	MaxDiscount   float64   `json:"max_discount" validate:"omitempty,min=0"`
	ValidFrom     time.Time `json:"valid_from" validate:"required"`
	ValidUntil    time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	UsageLimit    int64     `json:"usage_limit" validate:"omitempty,min=0"`
}

type CouponApplyRequest struct {
	Code   string  `json:"code" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func ValidateClaimCoupon(req *ClaimCouponRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateRejectClaim(req *RejectClaimRequest) ValidationErrors {
	req.Reason = SanitizeInput(req.Reason)
	return ValidateStruct(req)
}

func ValidateCouponCreate(req *CouponCreateRequest) ValidationErrors {
	errs := ValidateStruct(req)
	if req.DiscountType == "percentage" && req.DiscountValue > 100 {
		errs = append(errs, ValidationError{
			Field:   "DiscountValue",
			Tag:     "max",
			Message: "Percentage discount must be at most 100",
		})
	}
	return errs
}

func ValidateCouponApply(req *CouponApplyRequest) ValidationErrors {
	return ValidateStruct(req)
}
