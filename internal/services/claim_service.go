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
	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type ClaimService interface {
	// ClaimCoupon redeems a coupon, by code or id, on behalf of the partner user callerID.
	ClaimCoupon(ctx context.Context, callerID primitive.ObjectID, codeOrID string) (*models.CouponClaim, error)
	ApproveClaim(ctx context.Context, claimID, adminID primitive.ObjectID) (*models.CouponClaim, error)
	RejectClaim(ctx context.Context, claimID, adminID primitive.ObjectID, reason string) (*models.CouponClaim, error)
	MarkAsPaid(ctx context.Context, claimID, adminID primitive.ObjectID) (*models.CouponClaim, error)

	MyClaims(ctx context.Context, partnerUserID primitive.ObjectID, params *utils.PaginationParams) ([]*models.CouponClaim, int64, error)
	PendingClaims(ctx context.Context, params *utils.PaginationParams) ([]*models.ClaimView, int64, error)
	ListClaims(ctx context.Context, status models.ClaimStatus, params *utils.PaginationParams) ([]*models.ClaimView, int64, error)
}

type ClaimConfig struct {
	DefaultRejectReason string
	EnrichWorkers       int
}

type claimService struct {
	userRepo      interfaces.UserRepository
	partnerRepo   interfaces.PartnerRepository
	couponRepo    interfaces.DonationCouponRepository
	claimRepo     interfaces.CouponClaimRepository
	wallets       WalletService
	notifications NotificationService
	effects       *EffectRunner
	metrics       *metrics.Metrics
	cfg           ClaimConfig
	now           func() time.Time
	audit         *logger.AuditLogger
	logger        *logger.Logger
}

func NewClaimService(
	repos *interfaces.Repositories,
	wallets WalletService,
	notifications NotificationService,
	effects *EffectRunner,
	m *metrics.Metrics,
	cfg ClaimConfig,
	log *logger.Logger,
) ClaimService {
	if cfg.DefaultRejectReason == "" {
		cfg.DefaultRejectReason = "No reason provided"
	}
	if cfg.EnrichWorkers <= 0 {
		cfg.EnrichWorkers = 8
	}
	return &claimService{
		userRepo:      repos.Users,
		partnerRepo:   repos.Partners,
		couponRepo:    repos.DonationCoupons,
		claimRepo:     repos.Claims,
		wallets:       wallets,
		notifications: notifications,
		effects:       effects,
		metrics:       m,
		cfg:           cfg,
		now:           time.Now,
		audit:         logger.NewAuditLogger(log),
		logger:        log,
	}
}

func (s *claimService) ClaimCoupon(ctx context.Context, callerID primitive.ObjectID, codeOrID string) (*models.CouponClaim, error) {
	user, partner, err := s.eligiblePartner(ctx, callerID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.resolveCoupon(ctx, codeOrID)
	if err != nil {
		return nil, err
	}

	if coupon.PartnerID != partner.ID {
		return nil, utils.NewForbiddenError(CodeWrongPartner, "This coupon is not valid for your partner account")
	}

	now := s.now()
	if err := expireIfOverdue(ctx, s.couponRepo, coupon, now); err != nil {
		return nil, err
	}
	if err := usabilityError(coupon); err != nil {
		return nil, err
	}

	if _, err := s.claimRepo.GetByCouponID(ctx, coupon.ID); err == nil {
		return nil, errAlreadyClaimed()
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, utils.NewInternalError("failed to check existing claim", err)
	}

	// Redeem first: the conditional update admits exactly one claimant per coupon.
	if err := s.couponRepo.MarkUsed(ctx, coupon.ID, user.ID, now); err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, s.lostRedeemRace(ctx, coupon.ID, now)
		}
		return nil, utils.NewInternalError("failed to redeem coupon", err)
	}

	claim := &models.CouponClaim{
		CouponID:      coupon.ID,
		CouponCode:    coupon.Code,
		PartnerUserID: user.ID,
		PartnerID:     partner.ID,
		Amount:        coupon.Amount,
		Status:        models.ClaimStatusPending,
		RequestedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, errAlreadyClaimed()
		}
		s.logger.WithContext(ctx).WithError(err).WithField("coupon_id", coupon.ID.Hex()).Error("Coupon redeemed but claim could not be stored")
		return nil, utils.NewInternalError("failed to create claim", err)
	}

	s.metrics.ClaimTransitions.WithLabelValues(string(models.ClaimStatusPending)).Inc()
	s.logger.WithContext(ctx).LogClaimEvent(claim.ID, utils.EventClaimCreated, map[string]interface{}{
		"coupon_id":  coupon.ID.Hex(),
		"partner_id": partner.ID.Hex(),
		"amount":     claim.Amount,
	})

	s.effects.Run(ctx, Effect{Name: "claim_created_notification", Run: func(ctx context.Context) error {
		return s.notifications.ClaimCreated(ctx, claim)
	}})

	return claim, nil
}

// eligiblePartner walks the claim eligibility chain in order; the first unmet rule wins.
func (s *claimService) eligiblePartner(ctx context.Context, callerID primitive.ObjectID) (*models.User, *models.Partner, error) {
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, utils.NewUnauthorizedError("user not found")
		}
		return nil, nil, utils.NewInternalError("failed to load user", err)
	}

	if user.Role != models.UserRolePartner {
		return nil, nil, utils.NewForbiddenError(CodeNotPartner, "Only partners can claim coupons")
	}
	if !user.IsApproved {
		return nil, nil, utils.NewForbiddenError(CodeAccountPending, "Your account needs to be approved by admin before claiming coupons")
	}

	partner, err := s.partnerRepo.GetByOwner(ctx, user.ID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, utils.NewForbiddenError(CodePartnerFormAbsent, "Partner form not submitted. Please fill the partnership form first.")
		}
		return nil, nil, utils.NewInternalError("failed to load partner", err)
	}

	if !partner.Status.Operational() {
		return nil, nil, utils.NewForbiddenError(CodePartnerPending,
			"Your partner request is pending admin approval. You can claim coupons once your partner request is approved.")
	}
	if !user.PartnerKYCCompleted {
		if err := s.userRepo.SetPartnerKYCCompleted(ctx, user.ID, true); err != nil {
			s.logger.WithUserID(user.ID).WithError(err).Warn("Failed to reconcile partner KYC flag")
		} else {
			user.PartnerKYCCompleted = true
			s.logger.WithUserID(user.ID).Info("Reconciled stale partner KYC flag")
		}
	}

	if !user.PartnerKYCCompleted {
		return nil, nil, utils.NewForbiddenError(CodeKYCIncomplete, "Please complete your partnership KYC form first")
	}

	return user, partner, nil
}

func (s *claimService) resolveCoupon(ctx context.Context, codeOrID string) (*models.DonationCoupon, error) {
	raw := strings.TrimSpace(codeOrID)
	if raw == "" {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"coupon_code": "Coupon code is required"})
	}

	coupon, err := s.couponRepo.GetByCode(ctx, utils.NormalizeCouponCode(raw))
	if errors.Is(err, interfaces.ErrNotFound) {
		if id, idErr := primitive.ObjectIDFromHex(raw); idErr == nil {
			coupon, err = s.couponRepo.GetByID(ctx, id)
		}
	}
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("coupon")
		}
		return nil, utils.NewInternalError("failed to load coupon", err)
	}
	return coupon, nil
}

func usabilityError(coupon *models.DonationCoupon) error {
	switch coupon.Status {
	case models.DonationCouponStatusUsed:
		return errCouponUsed()
	case models.DonationCouponStatusExpired:
		return errCouponExpired()
	}
	return nil
}

// lostRedeemRace explains a failed redeem by re-reading the coupon.
func (s *claimService) lostRedeemRace(ctx context.Context, couponID primitive.ObjectID, now time.Time) error {
	coupon, err := s.couponRepo.GetByID(ctx, couponID)
	if err != nil {
		return errCouponUsed()
	}
	if err := expireIfOverdue(ctx, s.couponRepo, coupon, now); err != nil {
		return err
	}
	if err := usabilityError(coupon); err != nil {
		return err
	}
	return errCouponUsed()
}

func (s *claimService) ApproveClaim(ctx context.Context, claimID, adminID primitive.ObjectID) (*models.CouponClaim, error) {
	claim, err := s.transition(ctx, claimID, models.ClaimTransition{
		From:  models.ClaimStatusPending,
		To:    models.ClaimStatusApproved,
		Actor: adminID,
		At:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(ctx, claim)
	return claim, nil
}

func (s *claimService) RejectClaim(ctx context.Context, claimID, adminID primitive.ObjectID, reason string) (*models.CouponClaim, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = s.cfg.DefaultRejectReason
	}

	claim, err := s.transition(ctx, claimID, models.ClaimTransition{
		From:   models.ClaimStatusPending,
		To:     models.ClaimStatusRejected,
		Actor:  adminID,
		At:     s.now(),
		Reason: reason,
	})
	if err != nil {
		return nil, err
	}

	s.afterReview(ctx, claim)
	return claim, nil
}

func (s *claimService) MarkAsPaid(ctx context.Context, claimID, adminID primitive.ObjectID) (*models.CouponClaim, error) {
	claim, err := s.transition(ctx, claimID, models.ClaimTransition{
		From:  models.ClaimStatusApproved,
		To:    models.ClaimStatusPaid,
		Actor: adminID,
		At:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.effects.Run(ctx, Effect{Name: "claim_wallet_credit", Run: func(ctx context.Context) error {
		return s.wallets.CreditClaim(ctx, claim)
	}})
	s.afterReview(ctx, claim)
	return claim, nil
}

func (s *claimService) transition(ctx context.Context, claimID primitive.ObjectID, t models.ClaimTransition) (*models.CouponClaim, error) {
	claim, err := s.claimRepo.Transition(ctx, claimID, t)
	if err == nil {
		s.metrics.ClaimTransitions.WithLabelValues(string(t.To)).Inc()
		s.audit.LogAction("claim_"+string(t.To), "coupon_claim", t.Actor, claim.ID, map[string]interface{}{
			"from":   t.From,
			"amount": claim.Amount,
		})
		return claim, nil
	}
	if !errors.Is(err, interfaces.ErrNoMatch) {
		return nil, utils.NewInternalError("failed to update claim", err)
	}

	if _, getErr := s.claimRepo.GetByID(ctx, claimID); getErr != nil {
		if errors.Is(getErr, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("claim")
		}
		return nil, utils.NewInternalError("failed to load claim", getErr)
	}

	if t.From == models.ClaimStatusApproved {
		return nil, conflict("CLAIM_NOT_APPROVED", "Claim is not approved", ErrClaimNotApproved)
	}
	return nil, conflict("CLAIM_NOT_PENDING", "Claim is not pending", ErrClaimNotPending)
}

func (s *claimService) afterReview(ctx context.Context, claim *models.CouponClaim) {
	s.logger.WithContext(ctx).LogClaimEvent(claim.ID, claimEventType(claim.Status), map[string]interface{}{
		"amount":     claim.Amount,
		"partner_id": claim.PartnerID.Hex(),
	})

	s.effects.Run(ctx, Effect{Name: "claim_reviewed_notification", Run: func(ctx context.Context) error {
		partner, err := s.partnerRepo.GetByID(ctx, claim.PartnerID)
		if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return err
		}
		return s.notifications.ClaimReviewed(ctx, claim, partner)
	}})
}

func (s *claimService) MyClaims(ctx context.Context, partnerUserID primitive.ObjectID, params *utils.PaginationParams) ([]*models.CouponClaim, int64, error) {
	claims, total, err := s.claimRepo.List(ctx, models.ClaimFilter{PartnerUserID: &partnerUserID}, newestFirst(params))
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list claims", err)
	}
	return claims, total, nil
}

func (s *claimService) PendingClaims(ctx context.Context, params *utils.PaginationParams) ([]*models.ClaimView, int64, error) {
	return s.ListClaims(ctx, models.ClaimStatusPending, params)
}

func (s *claimService) ListClaims(ctx context.Context, status models.ClaimStatus, params *utils.PaginationParams) ([]*models.ClaimView, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"status": "Status must be one of pending, approved, rejected, paid",
		})
	}

	claims, total, err := s.claimRepo.List(ctx, models.ClaimFilter{Status: status}, newestFirst(params))
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list claims", err)
	}
	return s.enrich(ctx, claims), total, nil
}

// enrich attaches partner names and bank details. Lookups run concurrently per distinct
// partner; a failed lookup leaves bank_details null for that partner's claims.
func (s *claimService) enrich(ctx context.Context, claims []*models.CouponClaim) []*models.ClaimView {
	index := make(map[primitive.ObjectID]int)
	var ids []primitive.ObjectID
	for _, claim := range claims {
		if _, ok := index[claim.PartnerID]; ok {
			continue
		}
		index[claim.PartnerID] = len(ids)
		ids = append(ids, claim.PartnerID)
	}

	// Each goroutine owns one slot, so no lock is needed.
	partners := make([]*models.Partner, len(ids))
	var g errgroup.Group
	g.SetLimit(s.cfg.EnrichWorkers)
	for i, id := range ids {
		g.Go(func() error {
			partner, err := s.partnerRepo.GetByID(ctx, id)
			if err != nil {
				s.logger.WithError(err).WithField("partner_id", id.Hex()).Warn("Bank detail lookup failed")
				return nil
			}
			partners[i] = partner
			return nil
		})
	}
	_ = g.Wait()

	views := make([]*models.ClaimView, 0, len(claims))
	for _, claim := range claims {
		view := &models.ClaimView{CouponClaim: claim}
		if partner := partners[index[claim.PartnerID]]; partner != nil {
			view.PartnerName = partner.Name
			view.BankDetails = ExtractBankDetails(partner.FormData)
		}
		views = append(views, view)
	}
	return views
}

func newestFirst(params *utils.PaginationParams) *utils.PaginationParams {
	if params == nil {
		return utils.DefaultPagination()
	}
	return params
}
