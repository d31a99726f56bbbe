package services

import (
	"context"
	"errors"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/qrcode"
)

// Reasons a donation to a partner produced no coupon.
const (
	SkipDonorNotAuthenticated = "donor_not_authenticated"
	SkipPartnerNotFound       = "partner_not_found"
	SkipCodeSpaceExhausted    = "code_space_exhausted"
	SkipMintFailed            = "mint_failed"
)

type MintConfig struct {
	CodeAttempts   int
	ValidityMonths int
	Timeout        time.Duration
}

type MintResult struct {
	Coupon     *models.DonationCoupon
	Partner    *models.Partner
	SkipReason string
}

type CouponMinter interface {
	// Mint issues a coupon for a completed donation with a partner target. A donation
	// without an authenticated donor yields an Unauthorized error; a missing partner or an
	// exhausted code space yields a result with SkipReason set and no error.
	Mint(ctx context.Context, donation *models.Donation) (*MintResult, error)
}

type couponMinter struct {
	couponRepo  interfaces.DonationCouponRepository
	partnerRepo interfaces.PartnerRepository
	qr          qrcode.Renderer
	cfg         MintConfig
	newCode     func() string
	now         func() time.Time
	logger      *logger.Logger
}

func NewCouponMinter(
	couponRepo interfaces.DonationCouponRepository,
	partnerRepo interfaces.PartnerRepository,
	qr qrcode.Renderer,
	cfg MintConfig,
	logger *logger.Logger,
) CouponMinter {
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = 10
	}
	if cfg.ValidityMonths <= 0 {
		cfg.ValidityMonths = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &couponMinter{
		couponRepo:  couponRepo,
		partnerRepo: partnerRepo,
		qr:          qr,
		cfg:         cfg,
		newCode:     utils.GenerateDonationCouponCode,
		now:         time.Now,
		logger:      logger,
	}
}

func (m *couponMinter) Mint(ctx context.Context, donation *models.Donation) (*MintResult, error) {
	if donation.PartnerID == nil {
		return &MintResult{}, nil
	}
	if donation.UserID == nil {
		return nil, utils.NewUnauthorizedError("login required to receive a partner coupon")
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	log := m.logger.WithDonationID(donation.ID)

	partner, err := m.partnerRepo.GetByID(ctx, *donation.PartnerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			log.WithField("partner_id", donation.PartnerID.Hex()).Warn("Donation references unknown partner, no coupon minted")
			return &MintResult{SkipReason: SkipPartnerNotFound}, nil
		}
		return nil, utils.NewInternalError("failed to load partner", err)
	}

	for attempt := 1; attempt <= m.cfg.CodeAttempts; attempt++ {
		code := m.newCode()

		taken, err := m.couponRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, utils.NewInternalError("failed to check coupon code", err)
		}
		if taken {
			continue
		}

		qr, err := m.qr.DataURL(ctx, code)
		if err != nil {
			return nil, utils.NewInternalError("failed to render coupon qr code", err)
		}

		now := m.now()
		coupon := &models.DonationCoupon{
			Code:       code,
			QRCode:     qr,
			UserID:     *donation.UserID,
			PartnerID:  partner.ID,
			Amount:     donation.Amount,
			DonationID: donation.ID,
			PaymentID:  donation.PaymentID,
			Status:     models.DonationCouponStatusActive,
			ExpiryDate: now.AddDate(0, m.cfg.ValidityMonths, 0),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := m.couponRepo.Create(ctx, coupon); err != nil {
			if errors.Is(err, interfaces.ErrDuplicateKey) {
				log.WithField("attempt", attempt).Debug("Coupon code collided on insert, retrying")
				continue
			}
			return nil, utils.NewInternalError("failed to save coupon", err)
		}

		log.LogCouponEvent(coupon.ID, utils.EventCouponMinted, map[string]interface{}{
			"partner_id": partner.ID.Hex(),
			"amount":     coupon.Amount,
			"attempts":   attempt,
		})
		return &MintResult{Coupon: coupon, Partner: partner}, nil
	}

	log.WithField("attempts", m.cfg.CodeAttempts).Error("Could not find a free coupon code")
	return &MintResult{Partner: partner, SkipReason: SkipCodeSpaceExhausted}, nil
}
