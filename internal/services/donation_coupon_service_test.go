package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingCoupons struct {
	interfaces.DonationCouponRepository
	expiries atomic.Int32
}

func (c *countingCoupons) MarkExpired(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error) {
	wrote, err := c.DonationCouponRepository.MarkExpired(ctx, id, now)
	if wrote {
		c.expiries.Add(1)
	}
	return wrote, err
}

func TestMyCoupons_LazyExpiryWritesOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, partner := env.readyPartner(t)

	donor := primitive.NewObjectID()
	overdue := env.couponFor(t, donor, partner.ID, time.Now().Add(-time.Hour))
	live := env.couponFor(t, donor, partner.ID, time.Now().AddDate(0, 1, 0))

	repo := &countingCoupons{DonationCouponRepository: env.repos.DonationCoupons}
	svc := NewDonationCouponService(repo, env.repos.Partners, env.log)

	for i := 0; i < 2; i++ {
		views, err := svc.MyCoupons(ctx, donor)
		require.NoError(t, err)
		require.Len(t, views, 2)

		statuses := map[primitive.ObjectID]models.DonationCouponStatus{}
		for _, v := range views {
			statuses[v.ID] = v.Status
			require.NotNil(t, v.Partner)
			assert.Equal(t, partner.Name, v.Partner.Name)
		}
		assert.Equal(t, models.DonationCouponStatusExpired, statuses[overdue.ID])
		assert.Equal(t, models.DonationCouponStatusActive, statuses[live.ID])
	}

	assert.EqualValues(t, 1, repo.expiries.Load())
}

func TestGetCoupon_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, partner := env.readyPartner(t)
	coupon := env.coupon(t, partner.ID, time.Now().Add(-time.Minute))

	svc := NewDonationCouponService(env.repos.DonationCoupons, env.repos.Partners, env.log)

	_, err := svc.GetCoupon(ctx, primitive.NewObjectID(), coupon.ID)
	assertAppError(t, err, utils.KindNotFound, "")

	_, err = svc.GetCoupon(ctx, coupon.UserID, primitive.NewObjectID())
	assertAppError(t, err, utils.KindNotFound, "")

	view, err := svc.GetCoupon(ctx, coupon.UserID, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationCouponStatusExpired, view.Status)

	stored, err := env.repos.DonationCoupons.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationCouponStatusExpired, stored.Status)
}

func TestExpireIfOverdue_ReloadsWhenRedeemedMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, partner := env.readyPartner(t)
	coupon := env.coupon(t, partner.ID, time.Now().Add(time.Minute))

	stale, err := env.repos.DonationCoupons.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	require.NoError(t, env.repos.DonationCoupons.MarkUsed(ctx, coupon.ID, primitive.NewObjectID(), time.Now()))

	require.NoError(t, expireIfOverdue(ctx, env.repos.DonationCoupons, stale, time.Now().Add(time.Hour)))
	assert.Equal(t, models.DonationCouponStatusUsed, stale.Status)
}
