package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartnerType string
type PartnerStatus string

const (
	PartnerTypeHealth PartnerType = "health"
	PartnerTypeFood   PartnerType = "food"

	PartnerStatusPending  PartnerStatus = "pending"
	PartnerStatusApproved PartnerStatus = "approved"
	PartnerStatusRejected PartnerStatus = "rejected"
	PartnerStatusActive   PartnerStatus = "active"
)

func (s PartnerStatus) Valid() bool {
	switch s {
	case PartnerStatusPending, PartnerStatusApproved, PartnerStatusRejected, PartnerStatusActive:
		return true
	}
	return false
}

// Operational reports whether coupons may be claimed against a partner in this status.
func (s PartnerStatus) Operational() bool {
	return s == PartnerStatusApproved || s == PartnerStatusActive
}

type Partner struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name       string                 `json:"name" bson:"name"`
	Type       PartnerType            `json:"type" bson:"type"`
	Status     PartnerStatus          `json:"status" bson:"status"`
	Email      string                 `json:"email" bson:"email"`
	Phone      string                 `json:"phone" bson:"phone"`
	Address    string                 `json:"address" bson:"address"`
	City       string                 `json:"city" bson:"city"`
	Photo      string                 `json:"photo,omitempty" bson:"photo,omitempty"`
	Thumbnail  string                 `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	FormData   map[string]interface{} `json:"form_data,omitempty" bson:"form_data,omitempty"`
	CreatedBy  primitive.ObjectID     `json:"created_by" bson:"created_by"`
	ReviewedBy *primitive.ObjectID    `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt *time.Time             `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" bson:"updated_at"`
}

type PartnerFilter struct {
	Type   PartnerType
	Status PartnerStatus
	City   string
}
