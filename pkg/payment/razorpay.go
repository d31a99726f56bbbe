package payment

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (r *RazorpayGateway) Name() string { return "razorpay" }

func (r *RazorpayGateway) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	notes := map[string]interface{}{}
	for k, v := range request.Notes {
		notes[k] = v
	}
	orderData := map[string]interface{}{
		"amount":   ToMinorUnits(request.Amount),
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    notes,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, errors.Wrap(err, "razorpay: create order")
	}

	minor := intField(order, "amount")
	return &Order{
		ID:          stringField(order, "id"),
		Amount:      FromMinorUnits(minor),
		AmountMinor: minor,
		Currency:    stringField(order, "currency"),
		Receipt:     stringField(order, "receipt"),
		Status:      StatusCreated,
		KeyID:       r.keyID,
		CreatedAt:   intField(order, "created_at"),
	}, nil
}

// VerifySignature checks the checkout signature, HMAC-SHA256("order_id|payment_id") under the key secret.
func (r *RazorpayGateway) VerifySignature(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	if r.keySecret == "" {
		return false, ErrNotConfigured
	}
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, r.keySecret), nil
}

func (r *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	payment, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "razorpay: fetch payment %s", paymentID)
	}

	return &Payment{
		ID:        stringField(payment, "id"),
		OrderID:   stringField(payment, "order_id"),
		Status:    stringField(payment, "status"),
		Amount:    FromMinorUnits(intField(payment, "amount")),
		Currency:  stringField(payment, "currency"),
		Method:    stringField(payment, "method"),
		Email:     stringField(payment, "email"),
		Contact:   stringField(payment, "contact"),
		CreatedAt: intField(payment, "created_at"),
	}, nil
}

func (r *RazorpayGateway) Refund(ctx context.Context, request *RefundRequest) (*Refund, error) {
	data := map[string]interface{}{
		"notes": map[string]interface{}{"reason": request.Reason},
	}
	amount := 0
	if request.Amount > 0 {
		amount = int(ToMinorUnits(request.Amount))
		data["amount"] = amount
	}

	refund, err := r.client.Payment.Refund(request.PaymentID, amount, data, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "razorpay: refund payment %s", request.PaymentID)
	}

	return &Refund{
		ID:        stringField(refund, "id"),
		PaymentID: request.PaymentID,
		Status:    stringField(refund, "status"),
		Amount:    FromMinorUnits(intField(refund, "amount")),
		Currency:  stringField(refund, "currency"),
		CreatedAt: intField(refund, "created_at"),
	}, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Razorpay responses are decoded from JSON, so numbers usually arrive as float64.
func intField(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
