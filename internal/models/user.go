package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleDonor       UserRole = "donor"
	UserRoleBeneficiary UserRole = "beneficiary"
	UserRoleVolunteer   UserRole = "volunteer"
	UserRoleVendor      UserRole = "vendor"
	UserRoleFundraiser  UserRole = "fundraiser"
	UserRolePartner     UserRole = "partner"
	UserRoleStaff       UserRole = "staff"
	UserRoleAdmin       UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleDonor, UserRoleBeneficiary, UserRoleVolunteer, UserRoleVendor,
		UserRoleFundraiser, UserRolePartner, UserRoleStaff, UserRoleAdmin:
		return true
	}
	return false
}

// AutoApproved reports whether accounts with this role skip the admin approval gate.
func (r UserRole) AutoApproved() bool {
	return r == UserRoleAdmin || r == UserRoleDonor
}

type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	MobileNumber        string             `json:"mobile_number" bson:"mobile_number"`
	Password            string             `json:"-" bson:"password"`
	Role                UserRole           `json:"role" bson:"role"`
	IsApproved          bool               `json:"is_approved" bson:"is_approved"`
	PartnerKYCCompleted bool               `json:"partner_kyc_completed" bson:"partner_kyc_completed"`
	IsActive            bool               `json:"is_active" bson:"is_active"`
	BusinessName        string             `json:"business_name,omitempty" bson:"business_name,omitempty"`
	City                string             `json:"city,omitempty" bson:"city,omitempty"`
	LastLoginAt         *time.Time         `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

type UserFilter struct {
	Role       UserRole
	IsApproved *bool
}
