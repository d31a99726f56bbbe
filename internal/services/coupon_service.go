package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const discountCodeAttempts = 5

var hundred = decimal.NewFromInt(100)

// CouponService manages generic discount codes. These are independent of donation coupons.
type CouponService interface {
	Create(ctx context.Context, adminID primitive.ObjectID, request *validators.CouponCreateRequest) (*models.Coupon, error)
	List(ctx context.Context, filter models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
	Validate(ctx context.Context, request *validators.CouponApplyRequest) (*CouponQuote, error)
	// Redeem validates and consumes one use of the coupon.
	Redeem(ctx context.Context, request *validators.CouponApplyRequest) (*CouponQuote, error)
}

type CouponQuote struct {
	Code        string  `json:"code"`
	Amount      float64 `json:"amount"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
}

type couponService struct {
	couponRepo interfaces.CouponRepository
	now        func() time.Time
	logger     *logger.Logger
}

func NewCouponService(couponRepo interfaces.CouponRepository, log *logger.Logger) CouponService {
	return &couponService{couponRepo: couponRepo, now: time.Now, logger: log}
}

func (s *couponService) Create(ctx context.Context, adminID primitive.ObjectID, request *validators.CouponCreateRequest) (*models.Coupon, error) {
	if err := validators.ValidateCouponCreate(request).AppError(); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Description:   request.Description,
		DiscountType:  models.DiscountType(request.DiscountType),
		DiscountValue: request.DiscountValue,
		MinPurchase:   request.MinPurchase,
		MaxDiscount:   request.MaxDiscount,
		ValidFrom:     request.ValidFrom,
		ValidUntil:    request.ValidUntil,
		UsageLimit:    request.UsageLimit,
		IsActive:      true,
		CreatedBy:     adminID,
	}

	explicit := strings.TrimSpace(request.Code) != ""
	for attempt := 0; attempt < discountCodeAttempts; attempt++ {
		if explicit {
			coupon.Code = utils.NormalizeCouponCode(request.Code)
		} else {
			coupon.Code = utils.GenerateDiscountCode()
		}

		err := s.couponRepo.Create(ctx, coupon)
		if err == nil {
			s.logger.LogCouponEvent(coupon.ID, "discount_coupon_created", map[string]interface{}{
				"code":          coupon.Code,
				"discount_type": coupon.DiscountType,
			})
			return coupon, nil
		}
		if !errors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, utils.NewInternalError("failed to create coupon", err)
		}
		if explicit {
			return nil, utils.NewConflictError("COUPON_CODE_TAKEN", "A coupon with this code already exists")
		}
	}

	return nil, utils.NewInternalError("failed to generate a unique coupon code", nil)
}

func (s *couponService) List(ctx context.Context, filter models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	coupons, total, err := s.couponRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list coupons", err)
	}
	return coupons, total, nil
}

func (s *couponService) Validate(ctx context.Context, request *validators.CouponApplyRequest) (*CouponQuote, error) {
	coupon, err := s.check(ctx, request)
	if err != nil {
		return nil, err
	}
	return quote(coupon, request.Amount), nil
}

func (s *couponService) Redeem(ctx context.Context, request *validators.CouponApplyRequest) (*CouponQuote, error) {
	coupon, err := s.check(ctx, request)
	if err != nil {
		return nil, err
	}

	used, err := s.couponRepo.IncrementUsage(ctx, coupon.ID, s.now())
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, conflict("COUPON_NOT_APPLICABLE", "This coupon can no longer be used", ErrCouponNotApplicable)
		}
		return nil, utils.NewInternalError("failed to redeem coupon", err)
	}

	s.logger.LogCouponEvent(used.ID, "discount_coupon_redeemed", map[string]interface{}{
		"used_count": used.UsedCount,
	})
	return quote(used, request.Amount), nil
}

func (s *couponService) check(ctx context.Context, request *validators.CouponApplyRequest) (*models.Coupon, error) {
	if err := validators.ValidateCouponApply(request).AppError(); err != nil {
		return nil, err
	}

	coupon, err := s.lookup(ctx, request.Code)
	if err != nil {
		return nil, err
	}
	if err := applicable(coupon, request.Amount, s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) lookup(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, utils.NormalizeCouponCode(code))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("coupon")
		}
		return nil, utils.NewInternalError("failed to load coupon", err)
	}
	return coupon, nil
}

func applicable(coupon *models.Coupon, amount float64, now time.Time) error {
	var reason string
	switch {
	case !coupon.IsActive:
		reason = "This coupon is not active"
	case now.Before(coupon.ValidFrom):
		reason = "This coupon is not valid yet"
	case !now.Before(coupon.ValidUntil):
		reason = "This coupon has expired"
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		reason = "This coupon has reached its usage limit"
	case amount < coupon.MinPurchase:
		reason = "Purchase amount is below the coupon minimum"
	default:
		return nil
	}
	return conflict("COUPON_NOT_APPLICABLE", reason, ErrCouponNotApplicable)
}

// quote computes the discount in decimal: percentages are capped by MaxDiscount when set,
// and no discount exceeds the purchase amount.
func quote(coupon *models.Coupon, amount float64) *CouponQuote {
	total := decimal.NewFromFloat(amount)
	value := decimal.NewFromFloat(coupon.DiscountValue)

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = total.Mul(value).Div(hundred)
		if coupon.MaxDiscount > 0 {
			discount = decimal.Min(discount, decimal.NewFromFloat(coupon.MaxDiscount))
		}
	default:
		discount = value
	}
	discount = decimal.Min(discount, total).Round(2)

	return &CouponQuote{
		Code:        coupon.Code,
		Amount:      total.Round(2).InexactFloat64(),
		Discount:    discount.InexactFloat64(),
		FinalAmount: total.Sub(discount).Round(2).InexactFloat64(),
	}
}
