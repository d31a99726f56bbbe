package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
)

func TestDonationCouponMarkUsedIsSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationCouponRepository()
	coupon := &models.DonationCoupon{
		Code:       "COUPON-0000-0000-0001",
		Status:     models.DonationCouponStatusActive,
		ExpiryDate: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, coupon))

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.MarkUsed(ctx, coupon.ID, primitive.NewObjectID(), time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, interfaces.ErrNoMatch)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	stored, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationCouponStatusUsed, stored.Status)
}

func TestDonationCouponDuplicateCode(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationCouponRepository()
	require.NoError(t, repo.Create(ctx, &models.DonationCoupon{Code: "COUPON-AAAA-BBBB-CCCC"}))
	err := repo.Create(ctx, &models.DonationCoupon{Code: "COUPON-AAAA-BBBB-CCCC"})
	assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)
}

func TestDonationCouponMarkExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationCouponRepository()
	now := time.Now()
	coupon := &models.DonationCoupon{
		Code:       "COUPON-1111-2222-3333",
		Status:     models.DonationCouponStatusActive,
		ExpiryDate: now.Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, coupon))

	assert.ErrorIs(t, repo.MarkUsed(ctx, coupon.ID, primitive.NewObjectID(), now), interfaces.ErrNoMatch)

	wrote, err := repo.MarkExpired(ctx, coupon.ID, now)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = repo.MarkExpired(ctx, coupon.ID, now)
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestClaimTransitionGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponClaimRepository()
	claim := &models.CouponClaim{CouponID: primitive.NewObjectID(), Status: models.ClaimStatusPending}
	require.NoError(t, repo.Create(ctx, claim))

	admin := primitive.NewObjectID()
	_, err := repo.Transition(ctx, claim.ID, models.ClaimTransition{
		From: models.ClaimStatusApproved, To: models.ClaimStatusPaid, Actor: admin, At: time.Now(),
	})
	assert.ErrorIs(t, err, interfaces.ErrNoMatch)

	updated, err := repo.Transition(ctx, claim.ID, models.ClaimTransition{
		From: models.ClaimStatusPending, To: models.ClaimStatusRejected, Actor: admin, At: time.Now(), Reason: "blurry",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusRejected, updated.Status)
	assert.Equal(t, "blurry", updated.RejectionReason)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, admin, *updated.ReviewedBy)

	err = repo.Create(ctx, &models.CouponClaim{CouponID: claim.CouponID})
	assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)
}

func TestWalletCreditIsIdempotentAndDebitGuarded(t *testing.T) {
	ctx := context.Background()
	repo := NewWalletRepository()
	user := primitive.NewObjectID()

	applied, err := repo.Credit(ctx, user, models.WalletTransaction{Amount: 500, ReferenceID: "claim-1"})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.Credit(ctx, user, models.WalletTransaction{Amount: 500, ReferenceID: "claim-1"})
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = repo.Debit(ctx, user, models.WalletTransaction{Amount: 600, ReferenceID: "w-1"})
	assert.ErrorIs(t, err, interfaces.ErrNoMatch)

	wallet, err := repo.Debit(ctx, user, models.WalletTransaction{Amount: 200, ReferenceID: "w-2"})
	require.NoError(t, err)
	assert.Equal(t, 300.0, wallet.Balance)
	assert.Equal(t, 500.0, wallet.TotalEarned)
	assert.Equal(t, 200.0, wallet.TotalWithdrawn)
	assert.Len(t, wallet.Transactions, 2)
}

func TestCouponIncrementUsageRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository()
	now := time.Now()
	coupon := &models.Coupon{
		Code:       "SAVE10",
		IsActive:   true,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		UsageLimit: 2,
	}
	require.NoError(t, repo.Create(ctx, coupon))

	for i := 0; i < 2; i++ {
		_, err := repo.IncrementUsage(ctx, coupon.ID, now)
		require.NoError(t, err)
	}
	_, err := repo.IncrementUsage(ctx, coupon.ID, now)
	assert.ErrorIs(t, err, interfaces.ErrNoMatch)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository()
	user := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.Donation{Amount: float64(i + 1), UserID: &user}))
	}

	params := &utils.PaginationParams{Page: 1, PageSize: 2, Sort: "created_at", Order: "desc"}
	docs, total, err := repo.ListByUser(ctx, user, params)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, docs, 2)
	assert.Equal(t, 5.0, docs[0].Amount)
	assert.Equal(t, 4.0, docs[1].Amount)
}
