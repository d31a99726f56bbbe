package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
	ClaimStatusPaid     ClaimStatus = "paid"
)

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch s {
	case ClaimStatusPending:
		return next == ClaimStatusApproved || next == ClaimStatusRejected
	case ClaimStatusApproved:
		return next == ClaimStatusPaid
	}
	return false
}

type CouponClaim struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	CouponID        primitive.ObjectID  `json:"coupon_id" bson:"coupon_id"`
	CouponCode      string              `json:"coupon_code" bson:"coupon_code"`
	PartnerUserID   primitive.ObjectID  `json:"partner_user_id" bson:"partner_user_id"`
	PartnerID       primitive.ObjectID  `json:"partner_id" bson:"partner_id"`
	Amount          float64             `json:"amount" bson:"amount"`
	Status          ClaimStatus         `json:"status" bson:"status"`
	RequestedAt     time.Time           `json:"requested_at" bson:"requested_at"`
	ReviewedAt      *time.Time          `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewedBy      *primitive.ObjectID `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	PaidBy          *primitive.ObjectID `json:"paid_by,omitempty" bson:"paid_by,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// ClaimTransition carries the audit fields stamped by a status change.
type ClaimTransition struct {
	From   ClaimStatus
	To     ClaimStatus
	Actor  primitive.ObjectID
	At     time.Time
	Reason string
}

type ClaimFilter struct {
	Status        ClaimStatus
	PartnerUserID *primitive.ObjectID
}

// BankDetails is the payout information pulled from a partner's intake form.
type BankDetails struct {
	Version           int    `json:"version"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	IFSCCode          string `json:"ifsc_code,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	BranchName        string `json:"branch_name,omitempty"`
	UPIID             string `json:"upi_id,omitempty"`
}

// ClaimView is a claim enriched for admin listings.
type ClaimView struct {
	*CouponClaim
	PartnerName string       `json:"partner_name,omitempty"`
	BankDetails *BankDetails `json:"bank_details"`
}
