package payment

import (
	"context"
	"errors"
)

// Normalized gateway payment states.
const (
	StatusCreated    = "created"
	StatusAuthorized = "authorized"
	StatusCaptured   = "captured"
	StatusRefunded   = "refunded"
	StatusFailed     = "failed"
)

var ErrNotConfigured = errors.New("payment gateway not configured")

//go:generate mockgen -source=interface.go -destination=gateway_mock.go -package=payment
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error)
	// VerifySignature checks the checkout callback proves the payment belongs to the order.
	VerifySignature(ctx context.Context, orderID, paymentID, signature string) (bool, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	Refund(ctx context.Context, request *RefundRequest) (*Refund, error)
}

type OrderRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type Order struct {
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	AmountMinor  int64   `json:"amount_minor"`
	Currency     string  `json:"currency"`
	Receipt      string  `json:"receipt,omitempty"`
	Status       string  `json:"status"`
	ClientSecret string  `json:"client_secret,omitempty"`
	KeyID        string  `json:"key_id,omitempty"`
	CreatedAt    int64   `json:"created_at"`
}

type Payment struct {
	ID        string  `json:"payment_id"`
	OrderID   string  `json:"order_id,omitempty"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method,omitempty"`
	Email     string  `json:"email,omitempty"`
	Contact   string  `json:"contact,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

// Successful reports whether the money has been authorized or captured.
func (p *Payment) Successful() bool {
	return p.Status == StatusCaptured || p.Status == StatusAuthorized
}

type RefundRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"` // zero refunds the full amount
	Reason    string  `json:"reason"`
}

type Refund struct {
	ID        string  `json:"refund_id"`
	PaymentID string  `json:"payment_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}
