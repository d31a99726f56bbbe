package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carefoundation/internal/metrics"
	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/payment"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gateway amounts may differ from the client-reported amount by rounding only.
var amountTolerance = decimal.New(1, -2)

type PaymentService interface {
	CreateOrder(ctx context.Context, request *validators.CreateOrderRequest) (*payment.Order, error)
	// VerifyPayment checks the checkout signature and the captured payment with the gateway,
	// then records the donation. Nothing is recorded unless both checks pass.
	VerifyPayment(ctx context.Context, caller *Caller, request *validators.VerifyPaymentRequest) (*DonationResult, error)
	PaymentStatus(ctx context.Context, paymentID string) (*payment.Payment, error)
	Refund(ctx context.Context, adminID primitive.ObjectID, request *validators.RefundRequest) (*models.Donation, error)
}

type PaymentConfig struct {
	Currency  string
	MinAmount float64
}

type paymentService struct {
	gateway      payment.Gateway
	donations    DonationService
	donationRepo interfaces.DonationRepository
	guard        ReplayGuard
	metrics      *metrics.Metrics
	cfg          PaymentConfig
	audit        *logger.AuditLogger
	logger       *logger.Logger
}

func NewPaymentService(
	gateway payment.Gateway,
	donations DonationService,
	donationRepo interfaces.DonationRepository,
	guard ReplayGuard,
	m *metrics.Metrics,
	cfg PaymentConfig,
	log *logger.Logger,
) PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = utils.DefaultCurrency
	}
	if guard == nil {
		guard = nopReplayGuard{}
	}
	return &paymentService{
		gateway:      gateway,
		donations:    donations,
		donationRepo: donationRepo,
		guard:        guard,
		metrics:      m,
		cfg:          cfg,
		audit:        logger.NewAuditLogger(log),
		logger:       log,
	}
}

func (s *paymentService) requireGateway() error {
	if s.gateway == nil {
		return utils.NewDependencyError("Payment gateway is not configured", payment.ErrNotConfigured)
	}
	return nil
}

func (s *paymentService) CreateOrder(ctx context.Context, request *validators.CreateOrderRequest) (*payment.Order, error) {
	if err := validators.ValidateCreateOrder(request).AppError(); err != nil {
		return nil, err
	}
	if err := s.requireGateway(); err != nil {
		return nil, err
	}
	if request.Amount < s.cfg.MinAmount {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"amount": fmt.Sprintf("Amount must be at least %s", decimal.NewFromFloat(s.cfg.MinAmount).StringFixed(2)),
		})
	}

	currency := request.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	receipt := request.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("donation_%d", time.Now().UnixNano())
	}

	order, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   request.Amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    request.Notes,
	})
	if err != nil {
		return nil, utils.NewDependencyError("Failed to create payment order", err)
	}

	s.logger.LogPaymentEvent(order.ID, "order_created", order.Amount, order.Currency)
	return order, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, caller *Caller, request *validators.VerifyPaymentRequest) (*DonationResult, error) {
	if err := validators.ValidateVerifyPayment(request).AppError(); err != nil {
		return nil, err
	}
	if err := s.requireGateway(); err != nil {
		return nil, err
	}

	acquired, err := s.guard.Acquire(ctx, request.PaymentID)
	switch {
	case err != nil:
		s.logger.WithError(err).Warn("Payment guard unavailable, relying on unique payment id")
	case !acquired:
		s.verification("in_progress")
		return nil, conflict("PAYMENT_VERIFICATION_IN_PROGRESS", "This payment is already being verified", ErrPaymentReplayed)
	default:
		defer s.guard.Release(context.WithoutCancel(ctx), request.PaymentID)
	}

	if _, err := s.donationRepo.GetByPaymentID(ctx, request.PaymentID); err == nil {
		s.verification("duplicate")
		return nil, utils.NewConflictError("PAYMENT_ALREADY_RECORDED", "This payment has already been recorded")
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, utils.NewInternalError("failed to check payment", err)
	}

	valid, err := s.gateway.VerifySignature(ctx, request.OrderID, request.PaymentID, request.Signature)
	if err != nil {
		s.verification("gateway_error")
		return nil, utils.NewDependencyError("Failed to verify payment signature", err)
	}
	if !valid {
		s.verification("invalid_signature")
		return nil, utils.NewValidationError("Invalid payment signature", map[string]string{
			"razorpay_signature": "Signature does not match the order and payment",
		})
	}

	captured, err := s.gateway.FetchPayment(ctx, request.PaymentID)
	if err != nil {
		s.verification("gateway_error")
		return nil, utils.NewDependencyError("Failed to fetch payment", err)
	}
	if !captured.Successful() {
		s.verification("not_captured")
		return nil, utils.NewValidationError("Payment was not completed", map[string]string{
			"razorpay_payment_id": "Payment status is " + captured.Status,
		})
	}
	if captured.OrderID != "" && captured.OrderID != request.OrderID {
		s.verification("order_mismatch")
		return nil, utils.NewValidationError("Payment does not belong to this order", nil)
	}

	amount := request.Amount
	if captured.Amount > 0 {
		paid := decimal.NewFromFloat(captured.Amount)
		if paid.Sub(decimal.NewFromFloat(request.Amount)).Abs().GreaterThan(amountTolerance) {
			s.verification("amount_mismatch")
			return nil, utils.NewValidationError("Payment amount does not match the donation", map[string]string{
				"amount": "Expected " + paid.StringFixed(2),
			})
		}
		amount = captured.Amount
	}

	donation, err := s.donations.Build(ctx, caller, DonationInput{
		Amount:      amount,
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
	donation.PaymentMethod = models.PaymentMethod(s.gateway.Name())
	donation.PaymentID = request.PaymentID
	donation.OrderID = request.OrderID

	result, err := s.donations.Record(ctx, donation)
	if err != nil {
		return nil, err
	}

	s.verification("verified")
	s.audit.LogPaymentAudit(request.PaymentID, donation.Amount, donation.Currency, string(donation.PaymentMethod), captured.Status)
	return result, nil
}

func (s *paymentService) verification(result string) {
	s.metrics.PaymentVerifications.WithLabelValues(result).Inc()
}

func (s *paymentService) PaymentStatus(ctx context.Context, paymentID string) (*payment.Payment, error) {
	if err := s.requireGateway(); err != nil {
		return nil, err
	}
	p, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, utils.NewDependencyError("Failed to fetch payment", err)
	}
	return p, nil
}

func (s *paymentService) Refund(ctx context.Context, adminID primitive.ObjectID, request *validators.RefundRequest) (*models.Donation, error) {
	if err := validators.ValidateRefund(request).AppError(); err != nil {
		return nil, err
	}
	if err := s.requireGateway(); err != nil {
		return nil, err
	}

	donation, err := s.donationRepo.GetByPaymentID(ctx, request.PaymentID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("donation")
		}
		return nil, utils.NewInternalError("failed to load donation", err)
	}
	if donation.PaymentStatus != models.PaymentStatusCompleted {
		return nil, utils.NewConflictError("DONATION_NOT_REFUNDABLE", "Only completed donations can be refunded")
	}
	if request.Amount > donation.Amount {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"amount": "Refund cannot exceed the donation amount",
		})
	}

	refund, err := s.gateway.Refund(ctx, &payment.RefundRequest{
		PaymentID: request.PaymentID,
		Amount:    request.Amount,
		Reason:    request.Reason,
	})
	if err != nil {
		return nil, utils.NewDependencyError("Failed to refund payment", err)
	}

	now := time.Now()
	if err := s.donationRepo.MarkRefunded(ctx, donation.ID, refund.ID, now); err != nil {
		if errors.Is(err, interfaces.ErrNoMatch) {
			return nil, utils.NewConflictError("DONATION_NOT_REFUNDABLE", "Only completed donations can be refunded")
		}
		s.logger.WithDonationID(donation.ID).WithError(err).WithField("refund_id", refund.ID).Error("Refund issued but donation not updated")
		return nil, utils.NewInternalError("failed to mark donation refunded", err)
	}

	donation.PaymentStatus = models.PaymentStatusRefunded
	donation.RefundID = refund.ID
	donation.RefundedAt = &now
	donation.UpdatedAt = now

	s.audit.LogAction("donation_refund", "donation", adminID, donation.ID, map[string]interface{}{
		"refund_id": refund.ID,
		"amount":    refund.Amount,
	})
	s.logger.LogPaymentEvent(request.PaymentID, "refunded", refund.Amount, refund.Currency)
	return donation, nil
}
