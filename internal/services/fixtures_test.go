package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carefoundation/internal/metrics"
	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/repositories/memory"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotifier struct {
	mu       sync.Mutex
	pending  int
	minted   []*models.DonationCoupon
	created  []*models.CouponClaim
	reviewed []models.ClaimStatus
	fail     error
}

func (n *recordingNotifier) AccountPending(context.Context, *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending++
	return n.fail
}

func (n *recordingNotifier) CouponMinted(_ context.Context, _ *models.Donation, coupon *models.DonationCoupon, _ *models.Partner) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minted = append(n.minted, coupon)
	return n.fail
}

func (n *recordingNotifier) ClaimCreated(_ context.Context, claim *models.CouponClaim) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, claim)
	return n.fail
}

func (n *recordingNotifier) ClaimReviewed(_ context.Context, claim *models.CouponClaim, _ *models.Partner) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, claim.Status)
	return n.fail
}

type fakeQR struct{}

func (fakeQR) DataURL(_ context.Context, payload string) (string, error) {
	return "data:image/png;base64," + payload, nil
}

type testEnv struct {
	repos    *interfaces.Repositories
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	effects  *EffectRunner
	log      *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNop()
	m := metrics.NewNop()
	return &testEnv{
		repos:    memory.NewRepositories(),
		notifier: &recordingNotifier{},
		metrics:  m,
		effects:  NewEffectRunner(log, m),
		log:      log,
	}
}

func (e *testEnv) wallets() WalletService {
	return NewWalletService(e.repos.Wallets, e.log)
}

func (e *testEnv) claims() *claimService {
	return NewClaimService(e.repos, e.wallets(), e.notifier, e.effects, e.metrics, ClaimConfig{}, e.log).(*claimService)
}

func (e *testEnv) minter() *couponMinter {
	return NewCouponMinter(e.repos.DonationCoupons, e.repos.Partners, fakeQR{}, MintConfig{}, e.log).(*couponMinter)
}

func (e *testEnv) donations() DonationService {
	return NewDonationService(e.repos, e.minter(), e.notifier, e.effects, e.metrics, DonationConfig{MinAmount: 1}, e.log)
}

func (e *testEnv) user(t *testing.T, role models.UserRole, approved, kyc bool) *models.User {
	t.Helper()
	u := &models.User{
		Name:                "User " + string(role),
		Email:               primitive.NewObjectID().Hex() + "@example.org",
		Role:                role,
		IsApproved:          approved,
		PartnerKYCCompleted: kyc,
		IsActive:            true,
	}
	require.NoError(t, e.repos.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) partner(t *testing.T, owner primitive.ObjectID, status models.PartnerStatus) *models.Partner {
	t.Helper()
	p := &models.Partner{
		Name:      "City Clinic",
		Type:      models.PartnerTypeHealth,
		Status:    status,
		Email:     "clinic@example.org",
		CreatedBy: owner,
		FormData: map[string]interface{}{
			"bankDetails": map[string]interface{}{"accountNumber": "001122334455", "ifsc": "sbin0001234"},
		},
	}
	require.NoError(t, e.repos.Partners.Create(context.Background(), p))
	return p
}

// readyPartner returns an approved, KYC-complete partner user and its partner record.
func (e *testEnv) readyPartner(t *testing.T) (*models.User, *models.Partner) {
	t.Helper()
	u := e.user(t, models.UserRolePartner, true, true)
	return u, e.partner(t, u.ID, models.PartnerStatusApproved)
}

func (e *testEnv) coupon(t *testing.T, partnerID primitive.ObjectID, expiry time.Time) *models.DonationCoupon {
	t.Helper()
	return e.couponFor(t, primitive.NewObjectID(), partnerID, expiry)
}

func (e *testEnv) couponFor(t *testing.T, donorID, partnerID primitive.ObjectID, expiry time.Time) *models.DonationCoupon {
	t.Helper()
	c := &models.DonationCoupon{
		Code:       utils.GenerateDonationCouponCode(),
		UserID:     donorID,
		PartnerID:  partnerID,
		Amount:     500,
		DonationID: primitive.NewObjectID(),
		Status:     models.DonationCouponStatusActive,
		ExpiryDate: expiry,
	}
	require.NoError(t, e.repos.DonationCoupons.Create(context.Background(), c))
	return c
}

func assertAppError(t *testing.T, err error, kind utils.ErrorKind, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, kind, appErr.Kind)
	if code != "" {
		assert.Equal(t, code, appErr.Code)
	}
}
