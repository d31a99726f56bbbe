package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"carefoundation/internal/metrics"
	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign references with this prefix come from partner checkout pages and name no campaign.
const partnerCampaignPrefix = "partner-"

type DonationService interface {
	Create(ctx context.Context, caller *Caller, request *validators.DonationCreateRequest) (*DonationResult, error)
	Build(ctx context.Context, caller *Caller, in DonationInput) (*models.Donation, error)
	// Record persists a completed donation and runs campaign totals, coupon minting and
	// notifications. Used for direct submissions and verified gateway payments alike.
	Record(ctx context.Context, donation *models.Donation) (*DonationResult, error)
	MyDonations(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Donation, int64, error)
	List(ctx context.Context, filter models.DonationFilter, params *utils.PaginationParams) ([]*models.Donation, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
}

type DonationResult struct {
	Donation            *models.Donation       `json:"donation"`
	Coupon              *models.DonationCoupon `json:"coupon"`
	PartnerName         string                 `json:"partner_name,omitempty"`
	CouponSkippedReason string                 `json:"coupon_skipped_reason,omitempty"`

	partner *models.Partner
}

// DonationInput is the donor-supplied part of a donation, shared by direct submissions
// and gateway verifications.
type DonationInput struct {
	Amount      float64
	DonorName   string
	DonorEmail  string
	DonorPhone  string
	CampaignID  string
	PartnerID   string
	Message     string
	IsAnonymous bool
}

type donationService struct {
	donationRepo  interfaces.DonationRepository
	campaignRepo  interfaces.CampaignRepository
	userRepo      interfaces.UserRepository
	minter        CouponMinter
	notifications NotificationService
	effects       *EffectRunner
	metrics       *metrics.Metrics
	currency      string
	minAmount     float64
	logger        *logger.Logger
}

type DonationConfig struct {
	Currency  string
	MinAmount float64
}

func NewDonationService(
	repos *interfaces.Repositories,
	minter CouponMinter,
	notifications NotificationService,
	effects *EffectRunner,
	m *metrics.Metrics,
	cfg DonationConfig,
	logger *logger.Logger,
) DonationService {
	if cfg.Currency == "" {
		cfg.Currency = utils.DefaultCurrency
	}
	return &donationService{
		donationRepo:  repos.Donations,
		campaignRepo:  repos.Campaigns,
		userRepo:      repos.Users,
		minter:        minter,
		notifications: notifications,
		effects:       effects,
		metrics:       m,
		currency:      cfg.Currency,
		minAmount:     cfg.MinAmount,
		logger:        logger,
	}
}

func (s *donationService) Create(ctx context.Context, caller *Caller, request *validators.DonationCreateRequest) (*DonationResult, error) {
	if err := validators.ValidateDonationCreate(request).AppError(); err != nil {
		return nil, err
	}

	method := models.PaymentMethod(request.PaymentMethod)
	if method == "" {
		method = models.PaymentMethodRazorpay
	}

	donation, err := s.Build(ctx, caller, DonationInput{
		Amount:      request.Amount,
		DonorName:   request.DonorName,
		DonorEmail:  request.DonorEmail,
		DonorPhone:  request.DonorPhone,
		CampaignID:  request.CampaignID,
		PartnerID:   request.PartnerID,
		Message:     request.Message,
		IsAnonymous: request.IsAnonymous,
	})
	if err != nil {
		return nil, err
	}
	donation.PaymentMethod = method
	donation.PaymentID = request.PaymentID
	donation.OrderID = request.OrderID

	return s.Record(ctx, donation)
}

// Build turns donor input into an unsaved completed donation, filling donor contact
// details from the caller's account when omitted.
func (s *donationService) Build(ctx context.Context, caller *Caller, in DonationInput) (*models.Donation, error) {
	if in.Amount < s.minAmount {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"amount": "Amount is below the minimum donation",
		})
	}

	now := time.Now()
	donation := &models.Donation{
		Amount:        in.Amount,
		Currency:      s.currency,
		DonorName:     in.DonorName,
		DonorEmail:    utils.NormalizeEmail(in.DonorEmail),
		DonorPhone:    in.DonorPhone,
		CampaignID:    parseCampaignRef(in.CampaignID),
		PaymentStatus: models.PaymentStatusCompleted,
		Message:       in.Message,
		IsAnonymous:   in.IsAnonymous,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if in.PartnerID != "" {
		partnerID, err := primitive.ObjectIDFromHex(in.PartnerID)
		if err != nil {
			return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"partner_id": "Invalid partner id"})
		}
		donation.PartnerID = &partnerID
	}

	if caller != nil {
		userID := caller.ID
		donation.UserID = &userID
		if donation.DonorName == "" || donation.DonorEmail == "" {
			if user, err := s.userRepo.GetByID(ctx, caller.ID); err == nil {
				if donation.DonorName == "" {
					donation.DonorName = user.Name
				}
				if donation.DonorEmail == "" {
					donation.DonorEmail = user.Email
				}
				if donation.DonorPhone == "" {
					donation.DonorPhone = user.MobileNumber
				}
			}
		}
	}

	if donation.DonorName == "" || donation.DonorEmail == "" {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"donor": "Please provide donor name and email",
		})
	}

	return donation, nil
}

func (s *donationService) Record(ctx context.Context, donation *models.Donation) (*DonationResult, error) {
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, utils.NewConflictError("PAYMENT_ALREADY_RECORDED", "This payment has already been recorded")
		}
		return nil, utils.NewInternalError("failed to create donation", err)
	}

	s.metrics.DonationsTotal.WithLabelValues(string(donation.PaymentMethod)).Inc()
	s.logger.WithDonationID(donation.ID).LogPaymentEvent(donation.PaymentID, "donation_completed", donation.Amount, donation.Currency)

	if donation.CampaignID != nil {
		campaignID := *donation.CampaignID
		s.effects.Run(ctx, Effect{Name: "campaign_totals", Run: func(ctx context.Context) error {
			err := s.campaignRepo.IncrementTotals(ctx, campaignID, donation.Amount)
			if err != nil {
				// Totals now lag the donation ledger; reconcile from the donation id.
				s.logger.WithContext(ctx).WithDonationID(donation.ID).WithError(err).WithFields(map[string]interface{}{
					"campaign_id": campaignID.Hex(),
					"amount":      donation.Amount,
				}).Error("Campaign totals not incremented")
			}
			return err
		}})
	}

	result := &DonationResult{Donation: donation}
	if donation.PartnerID == nil {
		return result, nil
	}

	s.mint(ctx, result)

	if result.Coupon != nil {
		coupon, partner := result.Coupon, result.partner
		s.effects.Run(ctx, Effect{Name: "coupon_minted_notification", Run: func(ctx context.Context) error {
			return s.notifications.CouponMinted(ctx, donation, coupon, partner)
		}})
	}

	return result, nil
}

// mint never fails the donation; a skipped coupon is reported on the result.
func (s *donationService) mint(ctx context.Context, result *DonationResult) {
	log := s.logger.WithDonationID(result.Donation.ID)

	minted, err := s.minter.Mint(ctx, result.Donation)
	switch {
	case err != nil && utils.KindOf(err) == utils.KindUnauthorized:
		result.CouponSkippedReason = SkipDonorNotAuthenticated
		log.Info("Anonymous donation to partner, coupon not minted")
	case err != nil:
		result.CouponSkippedReason = SkipMintFailed
		log.WithError(err).Error("Coupon minting failed")
	case minted.Coupon == nil:
		result.CouponSkippedReason = minted.SkipReason
	default:
		result.Coupon = minted.Coupon
		result.PartnerName = minted.Partner.Name
		result.partner = minted.Partner
		s.metrics.CouponsMinted.Inc()
		return
	}

	if result.CouponSkippedReason != "" {
		s.metrics.CouponMintSkipped.WithLabelValues(result.CouponSkippedReason).Inc()
	}
}

func (s *donationService) MyDonations(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	donations, total, err := s.donationRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list donations", err)
	}
	return donations, total, nil
}

func (s *donationService) List(ctx context.Context, filter models.DonationFilter, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	donations, total, err := s.donationRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list donations", err)
	}
	return donations, total, nil
}

func (s *donationService) Get(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("donation")
		}
		return nil, utils.NewInternalError("failed to load donation", err)
	}
	return donation, nil
}

// parseCampaignRef ignores partner checkout references and anything that is not an ObjectID.
func parseCampaignRef(ref string) *primitive.ObjectID {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, partnerCampaignPrefix) {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil
	}
	return &id
}
