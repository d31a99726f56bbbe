package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletService interface {
	GetMine(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	Withdraw(ctx context.Context, caller Caller, request *validators.WithdrawRequest) (*models.Wallet, error)
	// CreditClaim pays a claim's amount into the partner's wallet. Crediting the same claim
	// twice is a no-op.
	CreditClaim(ctx context.Context, claim *models.CouponClaim) error
}

type walletService struct {
	walletRepo interfaces.WalletRepository
	audit      *logger.AuditLogger
	logger     *logger.Logger
}

func NewWalletService(walletRepo interfaces.WalletRepository, log *logger.Logger) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		audit:      logger.NewAuditLogger(log),
		logger:     log,
	}
}

func (s *walletService) GetMine(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("failed to load wallet", err)
	}
	return wallet, nil
}

func (s *walletService) Withdraw(ctx context.Context, caller Caller, request *validators.WithdrawRequest) (*models.Wallet, error) {
	if err := validators.ValidateWithdraw(request).AppError(); err != nil {
		return nil, err
	}
	if caller.Role != models.UserRolePartner {
		return nil, utils.NewForbiddenError(CodeNotPartner, "Only partners can withdraw from a wallet")
	}

	amount := decimal.NewFromFloat(request.Amount).Round(2)
	if !amount.IsPositive() {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"amount": "Amount must be positive"})
	}

	wallet, err := s.walletRepo.GetOrCreate(ctx, caller.ID)
	if err != nil {
		return nil, utils.NewInternalError("failed to load wallet", err)
	}
	if decimal.NewFromFloat(wallet.Balance).LessThan(amount) {
		return nil, errInsufficientBalance()
	}

	description := request.Description
	if description == "" {
		description = "Withdrawal"
	}

	updated, err := s.walletRepo.Debit(ctx, caller.ID, models.WalletTransaction{
		Amount:      amount.InexactFloat64(),
		Description: description,
		ReferenceID: primitive.NewObjectID().Hex(),
		Status:      "completed",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, errInsufficientBalance()
		}
		return nil, utils.NewInternalError("failed to debit wallet", err)
	}

	s.audit.LogAction("wallet_withdraw", "wallet", caller.ID, updated.ID, map[string]interface{}{
		"amount": amount.StringFixed(2),
	})
	return updated, nil
}

func (s *walletService) CreditClaim(ctx context.Context, claim *models.CouponClaim) error {
	applied, err := s.walletRepo.Credit(ctx, claim.PartnerUserID, models.WalletTransaction{
		Amount:      claim.Amount,
		Description: fmt.Sprintf("Coupon claim %s paid", claim.CouponCode),
		ReferenceID: claim.ID.Hex(),
		Status:      "completed",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	if !applied {
		s.logger.WithClaimID(claim.ID).Debug("Claim already credited to wallet")
	}
	return nil
}

func errInsufficientBalance() error {
	return conflict("INSUFFICIENT_BALANCE", "Insufficient wallet balance", ErrInsufficientBalance)
}
