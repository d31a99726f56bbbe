package services

import (
	"context"
	"errors"
	"testing"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWallet_CreditClaimIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.wallets()
	ctx := context.Background()

	claim := &models.CouponClaim{
		ID:            primitive.NewObjectID(),
		CouponCode:    "COUPON-AAAA-BBBB-CCCC",
		PartnerUserID: primitive.NewObjectID(),
		Amount:        420,
	}
	require.NoError(t, svc.CreditClaim(ctx, claim))
	require.NoError(t, svc.CreditClaim(ctx, claim))

	wallet, err := svc.GetMine(ctx, claim.PartnerUserID)
	require.NoError(t, err)
	assert.Equal(t, 420.0, wallet.Balance)
	assert.Equal(t, 420.0, wallet.TotalEarned)
	assert.Len(t, wallet.Transactions, 1)
}

func TestWallet_Withdraw(t *testing.T) {
	env := newTestEnv(t)
	svc := env.wallets()
	ctx := context.Background()
	partner := Caller{ID: primitive.NewObjectID(), Role: models.UserRolePartner}

	require.NoError(t, svc.CreditClaim(ctx, &models.CouponClaim{
		ID:            primitive.NewObjectID(),
		PartnerUserID: partner.ID,
		Amount:        100,
	}))

	wallet, err := svc.Withdraw(ctx, partner, &validators.WithdrawRequest{Amount: 40.255})
	require.NoError(t, err)
	assert.InDelta(t, 59.74, wallet.Balance, 0.0001)
	assert.InDelta(t, 40.26, wallet.TotalWithdrawn, 0.0001)
	require.Len(t, wallet.Transactions, 2)
	assert.Equal(t, models.WalletTransactionDebit, wallet.Transactions[1].Type)
	assert.Equal(t, "Withdrawal", wallet.Transactions[1].Description)

	_, err = svc.Withdraw(ctx, partner, &validators.WithdrawRequest{Amount: 60})
	assertAppError(t, err, utils.KindConflict, "INSUFFICIENT_BALANCE")
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
}

func TestWallet_WithdrawRequiresPartner(t *testing.T) {
	env := newTestEnv(t)
	donor := Caller{ID: primitive.NewObjectID(), Role: models.UserRoleDonor}

	_, err := env.wallets().Withdraw(context.Background(), donor, &validators.WithdrawRequest{Amount: 10})
	assertAppError(t, err, utils.KindForbidden, CodeNotPartner)
}

func TestWallet_WithdrawFromEmptyWallet(t *testing.T) {
	env := newTestEnv(t)
	partner := Caller{ID: primitive.NewObjectID(), Role: models.UserRolePartner}

	_, err := env.wallets().Withdraw(context.Background(), partner, &validators.WithdrawRequest{Amount: 1})
	assertAppError(t, err, utils.KindConflict, "INSUFFICIENT_BALANCE")
}
