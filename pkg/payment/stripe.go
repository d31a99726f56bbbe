package payment

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway maps the order/payment flow onto PaymentIntents: the intent id is both
// the order and the payment id, and the client secret handed to checkout is the signature.
type StripeGateway struct {
	client *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{client: sc}
}

func (s *StripeGateway) Name() string { return "stripe" }

func (s *StripeGateway) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToMinorUnits(request.Amount)),
		Currency: stripe.String(strings.ToLower(request.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if request.Receipt != "" {
		params.Description = stripe.String(request.Receipt)
	}
	for k, v := range request.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "stripe: create payment intent")
	}

	return &Order{
		ID:           pi.ID,
		Amount:       FromMinorUnits(pi.Amount),
		AmountMinor:  pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		Receipt:      request.Receipt,
		Status:       StatusCreated,
		ClientSecret: pi.ClientSecret,
		CreatedAt:    pi.Created,
	}, nil
}

func (s *StripeGateway) VerifySignature(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
	if orderID != paymentID {
		return false, nil
	}
	pi, err := s.getIntent(ctx, paymentID)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(pi.ClientSecret), []byte(signature)) == 1, nil
}

func (s *StripeGateway) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	pi, err := s.getIntent(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	payment := &Payment{
		ID:        pi.ID,
		OrderID:   pi.ID,
		Status:    intentStatus(pi.Status),
		Amount:    FromMinorUnits(pi.Amount),
		Currency:  strings.ToUpper(string(pi.Currency)),
		Email:     pi.ReceiptEmail,
		CreatedAt: pi.Created,
	}
	if pi.PaymentMethod != nil {
		payment.Method = string(pi.PaymentMethod.Type)
	}
	return payment, nil
}

func (s *StripeGateway) Refund(ctx context.Context, request *RefundRequest) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(request.PaymentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if request.Amount > 0 {
		params.Amount = stripe.Int64(ToMinorUnits(request.Amount))
	}
	if request.Reason != "" {
		params.AddMetadata("reason", request.Reason)
	}

	refund, err := s.client.Refunds.New(params)
	if err != nil {
		return nil, errors.Wrapf(err, "stripe: refund payment intent %s", request.PaymentID)
	}

	return &Refund{
		ID:        refund.ID,
		PaymentID: request.PaymentID,
		Status:    string(refund.Status),
		Amount:    FromMinorUnits(refund.Amount),
		Currency:  strings.ToUpper(string(refund.Currency)),
		CreatedAt: refund.Created,
	}, nil
}

func (s *StripeGateway) getIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.client.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, errors.Wrapf(err, "stripe: fetch payment intent %s", id)
	}
	return pi, nil
}

func intentStatus(status stripe.PaymentIntentStatus) string {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCaptured
	case stripe.PaymentIntentStatusRequiresCapture:
		return StatusAuthorized
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusCreated
	}
}
