package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func donationFor(donor, partner *primitive.ObjectID) *models.Donation {
	return &models.Donation{
		ID:            primitive.NewObjectID(),
		Amount:        750,
		UserID:        donor,
		PartnerID:     partner,
		PaymentID:     "pay_" + primitive.NewObjectID().Hex(),
		PaymentStatus: models.PaymentStatusCompleted,
	}
}

func sequence(codes ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i%len(codes)]
		i++
		return code
	}
}

func TestMint_NoPartnerTarget(t *testing.T) {
	env := newTestEnv(t)
	donor := primitive.NewObjectID()

	result, err := env.minter().Mint(context.Background(), donationFor(&donor, nil))
	require.NoError(t, err)
	assert.Nil(t, result.Coupon)
	assert.Empty(t, result.SkipReason)
}

func TestMint_AnonymousDonorIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)

	_, err := env.minter().Mint(context.Background(), donationFor(nil, &partner.ID))
	assertAppError(t, err, utils.KindUnauthorized, "")
}

func TestMint_UnknownPartnerSkips(t *testing.T) {
	env := newTestEnv(t)
	donor, partner := primitive.NewObjectID(), primitive.NewObjectID()

	result, err := env.minter().Mint(context.Background(), donationFor(&donor, &partner))
	require.NoError(t, err)
	assert.Nil(t, result.Coupon)
	assert.Equal(t, SkipPartnerNotFound, result.SkipReason)
}

func TestMint_IssuesActiveCoupon(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)
	donor := primitive.NewObjectID()

	minter := env.minter()
	fixed := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)
	minter.now = func() time.Time { return fixed }

	donation := donationFor(&donor, &partner.ID)
	result, err := minter.Mint(context.Background(), donation)
	require.NoError(t, err)
	require.NotNil(t, result.Coupon)

	coupon := result.Coupon
	assert.True(t, utils.IsDonationCouponCode(coupon.Code), coupon.Code)
	assert.True(t, strings.HasPrefix(coupon.QRCode, "data:image/png;base64,"))
	assert.Equal(t, models.DonationCouponStatusActive, coupon.Status)
	assert.Equal(t, fixed.AddDate(0, 1, 0), coupon.ExpiryDate)
	assert.Equal(t, donor, coupon.UserID)
	assert.Equal(t, partner.ID, coupon.PartnerID)
	assert.Equal(t, donation.ID, coupon.DonationID)
	assert.Equal(t, donation.PaymentID, coupon.PaymentID)
	assert.Equal(t, 750.0, coupon.Amount)
	assert.Equal(t, partner.Name, result.Partner.Name)
}

func TestMint_RetriesTakenCodes(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)
	donor := primitive.NewObjectID()

	taken := env.coupon(t, partner.ID, time.Now().AddDate(0, 1, 0))
	minter := env.minter()
	minter.newCode = sequence(taken.Code, taken.Code, "COUPON-1234-5678-9ABC")

	result, err := minter.Mint(context.Background(), donationFor(&donor, &partner.ID))
	require.NoError(t, err)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, "COUPON-1234-5678-9ABC", result.Coupon.Code)
}

func TestMint_CodeSpaceExhausted(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)
	donor := primitive.NewObjectID()

	taken := env.coupon(t, partner.ID, time.Now().AddDate(0, 1, 0))
	minter := env.minter()
	minter.newCode = sequence(taken.Code)

	result, err := minter.Mint(context.Background(), donationFor(&donor, &partner.ID))
	require.NoError(t, err)
	assert.Nil(t, result.Coupon)
	assert.Equal(t, SkipCodeSpaceExhausted, result.SkipReason)
}

func TestMint_ConcurrentCodesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)
	minter := env.minter()

	const n = 32
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[string]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			donor := primitive.NewObjectID()
			result, err := minter.Mint(context.Background(), donationFor(&donor, &partner.ID))
			if !assert.NoError(t, err) || !assert.NotNil(t, result.Coupon) {
				return
			}
			mu.Lock()
			codes[result.Coupon.Code] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, codes, n)
}
