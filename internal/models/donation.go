package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string
type PaymentStatus string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodOther    PaymentMethod = "other"
	PaymentMethodDemo     PaymentMethod = "demo"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Donation struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Amount        float64             `json:"amount" bson:"amount"`
	Currency      string              `json:"currency" bson:"currency"`
	DonorName     string              `json:"donor_name" bson:"donor_name"`
	DonorEmail    string              `json:"donor_email" bson:"donor_email"`
	DonorPhone    string              `json:"donor_phone,omitempty" bson:"donor_phone,omitempty"`
	UserID        *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	CampaignID    *primitive.ObjectID `json:"campaign_id,omitempty" bson:"campaign_id,omitempty"`
	PartnerID     *primitive.ObjectID `json:"partner_id,omitempty" bson:"partner_id,omitempty"`
	PaymentMethod PaymentMethod       `json:"payment_method" bson:"payment_method"`
	PaymentStatus PaymentStatus       `json:"payment_status" bson:"payment_status"`
	PaymentID     string              `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	OrderID       string              `json:"order_id,omitempty" bson:"order_id,omitempty"`
	Message       string              `json:"message,omitempty" bson:"message,omitempty"`
	IsAnonymous   bool                `json:"is_anonymous" bson:"is_anonymous"`
	RefundID      string              `json:"refund_id,omitempty" bson:"refund_id,omitempty"`
	RefundedAt    *time.Time          `json:"refunded_at,omitempty" bson:"refunded_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
}

type DonationFilter struct {
	PaymentStatus PaymentStatus
	CampaignID    *primitive.ObjectID
	PartnerID     *primitive.ObjectID
}
