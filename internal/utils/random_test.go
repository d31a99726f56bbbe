package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDonationCouponCode_Format(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		code := GenerateDonationCouponCode()
		assert.Len(t, code, len("COUPON-XXXX-XXXX-XXXX"))
		assert.True(t, IsDonationCouponCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 490)
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "COUPON-AB12-00FF-9C9C", NormalizeCouponCode("  coupon-ab12-00ff-9c9c\n"))
	assert.True(t, IsDonationCouponCode(NormalizeCouponCode(" coupon-ab12-00ff-9c9c ")))
	assert.False(t, IsDonationCouponCode("COUPON-GGGG-0000-0000"))
	assert.False(t, IsDonationCouponCode("coupon-ab12-00ff-9c9c"))
}

func TestGenerateDiscountCode(t *testing.T) {
	code := GenerateDiscountCode()
	assert.Len(t, code, DiscountCodeLength)
	assert.Equal(t, NormalizeCouponCode(code), code)
}
