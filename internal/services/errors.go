package services

import (
	"errors"

	"carefoundation/internal/utils"
)

// State-machine outcomes. Services wrap them in Conflict AppErrors so callers can
// match with errors.Is at any layer.
var (
	ErrCouponAlreadyUsed   = errors.New("coupon already used")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrAlreadyClaimed      = errors.New("coupon already claimed")
	ErrClaimNotPending     = errors.New("claim is not pending")
	ErrClaimNotApproved    = errors.New("claim is not approved")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrCouponNotApplicable = errors.New("coupon not applicable")
	ErrPaymentReplayed     = errors.New("payment already being verified")
)

// Forbidden codes for the claim eligibility chain.
const (
	CodeNotPartner        = "NOT_PARTNER"
	CodeAccountPending    = "ACCOUNT_PENDING_APPROVAL"
	CodePartnerFormAbsent = "PARTNER_FORM_NOT_SUBMITTED"
	CodePartnerPending    = "PARTNER_PENDING_APPROVAL"
	CodeKYCIncomplete     = "KYC_INCOMPLETE"
	CodeWrongPartner      = "COUPON_PARTNER_MISMATCH"
)

func conflict(code, message string, sentinel error) *utils.AppError {
	err := utils.NewConflictError(code, message)
	err.Err = sentinel
	return err
}

func errCouponUsed() error {
	return conflict("COUPON_ALREADY_USED", "This coupon has already been used", ErrCouponAlreadyUsed)
}

func errCouponExpired() error {
	return conflict("COUPON_EXPIRED", "This coupon has expired", ErrCouponExpired)
}

func errAlreadyClaimed() error {
	return conflict("ALREADY_CLAIMED", "You have already claimed this coupon", ErrAlreadyClaimed)
}
