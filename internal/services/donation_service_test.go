package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDonationCreate_AnonymousToPartnerSoftFails(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)

	result, err := env.donations().Create(context.Background(), nil, &validators.DonationCreateRequest{
		Amount:     250,
		DonorName:  "Asha",
		DonorEmail: "Asha@Example.org",
		PartnerID:  partner.ID.Hex(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, result.Donation.PaymentStatus)
	assert.Equal(t, "asha@example.org", result.Donation.DonorEmail)
	assert.Nil(t, result.Coupon)
	assert.Equal(t, SkipDonorNotAuthenticated, result.CouponSkippedReason)
	assert.Empty(t, env.notifier.minted)

	stored, err := env.repos.Donations.GetByID(context.Background(), result.Donation.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.UserID)
}

func TestDonationCreate_AuthenticatedToPartnerMintsCoupon(t *testing.T) {
	env := newTestEnv(t)
	_, partner := env.readyPartner(t)
	donor := env.user(t, models.UserRoleDonor, true, false)

	result, err := env.donations().Create(context.Background(), &Caller{ID: donor.ID, Role: donor.Role}, &validators.DonationCreateRequest{
		Amount:        1000,
		PartnerID:     partner.ID.Hex(),
		PaymentMethod: "demo",
		PaymentID:     "pay_demo_1",
	})
	require.NoError(t, err)

	assert.Equal(t, donor.Name, result.Donation.DonorName)
	assert.Equal(t, donor.Email, result.Donation.DonorEmail)
	assert.Equal(t, models.PaymentMethodDemo, result.Donation.PaymentMethod)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, donor.ID, result.Coupon.UserID)
	assert.Equal(t, 1000.0, result.Coupon.Amount)
	assert.Equal(t, partner.Name, result.PartnerName)
	assert.Empty(t, result.CouponSkippedReason)
	assert.Len(t, env.notifier.minted, 1)

	coupons, err := env.repos.DonationCoupons.ListByUser(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)
}

func TestDonationCreate_CampaignReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	campaign := &models.Campaign{Title: "Winter meals", GoalAmount: 10000, Status: models.CampaignStatusActive}
	require.NoError(t, env.repos.Campaigns.Create(ctx, campaign))

	svc := env.donations()
	request := func(ref string) *validators.DonationCreateRequest {
		return &validators.DonationCreateRequest{Amount: 100, DonorName: "Ravi", DonorEmail: "ravi@example.org", CampaignID: ref}
	}

	result, err := svc.Create(ctx, nil, request(campaign.ID.Hex()))
	require.NoError(t, err)
	require.NotNil(t, result.Donation.CampaignID)

	stored, err := env.repos.Campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.CurrentAmount)
	assert.EqualValues(t, 1, stored.Donors)

	result, err = svc.Create(ctx, nil, request("partner-"+campaign.ID.Hex()))
	require.NoError(t, err)
	assert.Nil(t, result.Donation.CampaignID)

	result, err = svc.Create(ctx, nil, request("not-an-id"))
	require.NoError(t, err)
	assert.Nil(t, result.Donation.CampaignID)
}

type brokenCampaigns struct {
	interfaces.CampaignRepository
}

func (brokenCampaigns) IncrementTotals(context.Context, primitive.ObjectID, float64) error {
	return errors.New("write conflict")
}

func TestDonationCreate_CampaignTotalsFailureIsLoggedForReconciliation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var out bytes.Buffer
	env.log.SetOutput(&out)

	campaign := &models.Campaign{Title: "Winter meals", GoalAmount: 10000, Status: models.CampaignStatusActive}
	require.NoError(t, env.repos.Campaigns.Create(ctx, campaign))

	svc := env.donations().(*donationService)
	svc.campaignRepo = brokenCampaigns{CampaignRepository: env.repos.Campaigns}

	result, err := svc.Create(ctx, nil, &validators.DonationCreateRequest{
		Amount: 100, DonorName: "Ravi", DonorEmail: "ravi@example.org", CampaignID: campaign.ID.Hex(),
	})
	require.NoError(t, err)

	logged := out.String()
	assert.Contains(t, logged, "level=error")
	assert.Contains(t, logged, "Campaign totals not incremented")
	assert.Contains(t, logged, result.Donation.ID.Hex())
	assert.Contains(t, logged, campaign.ID.Hex())

	stored, err := env.repos.Campaigns.GetByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.CurrentAmount)
}

func TestDonationCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	svc := env.donations()
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, &validators.DonationCreateRequest{Amount: 0.5, DonorName: "A", DonorEmail: "a@example.org"})
	assertAppError(t, err, utils.KindValidation, "")

	_, err = svc.Create(ctx, nil, &validators.DonationCreateRequest{Amount: 50})
	assertAppError(t, err, utils.KindValidation, "")

	first := &validators.DonationCreateRequest{Amount: 50, DonorName: "A", DonorEmail: "a@example.org", PaymentID: "pay_dup"}
	_, err = svc.Create(ctx, nil, first)
	require.NoError(t, err)

	second := *first
	_, err = svc.Create(ctx, nil, &second)
	assertAppError(t, err, utils.KindConflict, "PAYMENT_ALREADY_RECORDED")
}

func TestDonationCreate_UnknownPartnerSkipsCoupon(t *testing.T) {
	env := newTestEnv(t)
	donor := env.user(t, models.UserRoleDonor, true, false)

	result, err := env.donations().Create(context.Background(), &Caller{ID: donor.ID, Role: donor.Role}, &validators.DonationCreateRequest{
		Amount:    300,
		PartnerID: "64b7f0c2a1b2c3d4e5f60718",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Coupon)
	assert.Equal(t, SkipPartnerNotFound, result.CouponSkippedReason)
}
