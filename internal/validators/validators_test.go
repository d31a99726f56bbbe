package validators

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carefoundation/internal/utils"
)

func TestValidateClaimCoupon(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"canonical code", "COUPON-1A2B-3C4D-5E6F", true},
		{"lowercase code with spaces", "  coupon-1a2b-3c4d-5e6f ", true},
		{"object id", primitive.NewObjectID().Hex(), true},
		{"non hex group", "COUPON-ZZZZ-3C4D-5E6F", false},
		{"garbage", "hello", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateClaimCoupon(&ClaimCouponRequest{CouponCode: tt.code})
			assert.Equal(t, tt.valid, len(errs) == 0, errs.Error())
		})
	}
}

func TestValidateRegister(t *testing.T) {
	req := &RegisterRequest{
		Name:         "<b>Asha</b>",
		Email:        "asha@example.org",
		MobileNumber: "+91 9876543210",
		Password:     "secret1",
		Role:         "partner",
	}
	assert.Empty(t, ValidateRegister(req))
	assert.Equal(t, "Asha", req.Name)

	bad := &RegisterRequest{Name: "A", Email: "nope", Password: "123", Role: "pilot", MobileNumber: "12345"}
	errs := ValidateRegister(bad)
	tags := map[string]string{}
	for _, e := range errs {
		tags[e.Field] = e.Tag
	}
	assert.Equal(t, "min", tags["Name"])
	assert.Equal(t, "email", tags["Email"])
	assert.Equal(t, "min", tags["Password"])
	assert.Equal(t, "user_role", tags["Role"])
	assert.Equal(t, "indian_phone", tags["MobileNumber"])
}

func TestValidatePartnerCreate(t *testing.T) {
	assert.Empty(t, ValidatePartnerCreate(&PartnerCreateRequest{Name: "City Clinic", Type: "health"}))

	errs := ValidatePartnerCreate(&PartnerCreateRequest{Name: "City Clinic", Type: "retail"})
	require.Len(t, errs, 1)
	assert.Equal(t, "partner_type", errs[0].Tag)
}

func TestValidateCouponCreate(t *testing.T) {
	now := time.Now()
	req := &CouponCreateRequest{
		Code:          "SAVE10",
		DiscountType:  "percentage",
		DiscountValue: 150,
		ValidFrom:     now,
		ValidUntil:    now.Add(-time.Hour),
	}
	errs := ValidateCouponCreate(req)
	fields := []string{}
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "ValidUntil")
	assert.Contains(t, fields, "DiscountValue")
}

func TestValidationErrorsAppError(t *testing.T) {
	assert.Nil(t, ValidationErrors(nil).AppError())

	err := ValidateDonationCreate(&DonationCreateRequest{Amount: 0}).AppError()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}
