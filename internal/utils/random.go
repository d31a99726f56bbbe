package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	letterBytes  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	numberBytes  = "23456789"
	alphanumeric = letterBytes + numberBytes
)

var donationCouponPattern = regexp.MustCompile(`^COUPON-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`)

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateDonationCouponCode returns a code of the form COUPON-XXXX-XXXX-XXXX over 0-9A-F.
func GenerateDonationCouponCode() string {
	groups := make([]string, 0, DonationCouponGroups+1)
	groups = append(groups, DonationCouponPrefix)
	for i := 0; i < DonationCouponGroups; i++ {
		groups = append(groups, generateRandom(DonationCouponGroupLength, DonationCouponAlphabet))
	}
	return strings.Join(groups, "-")
}

// GenerateDiscountCode returns an uppercase alphanumeric code without look-alike characters.
func GenerateDiscountCode() string {
	return generateRandom(DiscountCodeLength, alphanumeric)
}

// NormalizeCouponCode trims and uppercases a user-supplied code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsDonationCouponCode(code string) bool {
	return donationCouponPattern.MatchString(code)
}
