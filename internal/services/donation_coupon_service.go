package services

import (
	"context"
	"errors"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationCouponService interface {
	MyCoupons(ctx context.Context, donorID primitive.ObjectID) ([]*models.DonationCouponView, error)
	GetCoupon(ctx context.Context, donorID, couponID primitive.ObjectID) (*models.DonationCouponView, error)
}

type donationCouponService struct {
	couponRepo  interfaces.DonationCouponRepository
	partnerRepo interfaces.PartnerRepository
	now         func() time.Time
	logger      *logger.Logger
}

func NewDonationCouponService(
	couponRepo interfaces.DonationCouponRepository,
	partnerRepo interfaces.PartnerRepository,
	logger *logger.Logger,
) DonationCouponService {
	return &donationCouponService{
		couponRepo:  couponRepo,
		partnerRepo: partnerRepo,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *donationCouponService) MyCoupons(ctx context.Context, donorID primitive.ObjectID) ([]*models.DonationCouponView, error) {
	coupons, err := s.couponRepo.ListByUser(ctx, donorID)
	if err != nil {
		return nil, utils.NewInternalError("failed to list coupons", err)
	}

	now := s.now()
	partners := make(map[primitive.ObjectID]*models.PartnerSummary)
	views := make([]*models.DonationCouponView, 0, len(coupons))
	for _, coupon := range coupons {
		if err := expireIfOverdue(ctx, s.couponRepo, coupon, now); err != nil {
			return nil, err
		}
		views = append(views, &models.DonationCouponView{
			DonationCoupon: coupon,
			Partner:        s.partnerSummary(ctx, partners, coupon.PartnerID),
		})
	}
	return views, nil
}

func (s *donationCouponService) GetCoupon(ctx context.Context, donorID, couponID primitive.ObjectID) (*models.DonationCouponView, error) {
	coupon, err := s.couponRepo.GetByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("coupon")
		}
		return nil, utils.NewInternalError("failed to load coupon", err)
	}
	// Another donor's coupon is reported as missing rather than forbidden.
	if coupon.UserID != donorID {
		return nil, utils.NewNotFoundError("coupon")
	}

	if err := expireIfOverdue(ctx, s.couponRepo, coupon, s.now()); err != nil {
		return nil, err
	}

	return &models.DonationCouponView{
		DonationCoupon: coupon,
		Partner:        s.partnerSummary(ctx, map[primitive.ObjectID]*models.PartnerSummary{}, coupon.PartnerID),
	}, nil
}

func (s *donationCouponService) partnerSummary(ctx context.Context, seen map[primitive.ObjectID]*models.PartnerSummary, id primitive.ObjectID) *models.PartnerSummary {
	if summary, ok := seen[id]; ok {
		return summary
	}
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithError(err).WithField("partner_id", id.Hex()).Warn("Failed to resolve coupon partner")
		}
		seen[id] = nil
		return nil
	}
	summary := &models.PartnerSummary{ID: partner.ID, Name: partner.Name, Email: partner.Email, Type: partner.Type}
	seen[id] = summary
	return summary
}

// expireIfOverdue flips an overdue active coupon to expired in the store and on coupon.
// When another writer moved it first, coupon is reloaded.
func expireIfOverdue(ctx context.Context, repo interfaces.DonationCouponRepository, coupon *models.DonationCoupon, now time.Time) error {
	if !coupon.Overdue(now) {
		return nil
	}

	wrote, err := repo.MarkExpired(ctx, coupon.ID, now)
	if err != nil {
		return utils.NewInternalError("failed to expire coupon", err)
	}
	if wrote {
		coupon.Status = models.DonationCouponStatusExpired
		coupon.UpdatedAt = now
		return nil
	}

	fresh, err := repo.GetByID(ctx, coupon.ID)
	if err != nil {
		return utils.NewInternalError("failed to reload coupon", err)
	}
	*coupon = *fresh
	return nil
}
