package services

import (
	"context"
	"errors"
	"testing"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type stubGuard struct {
	acquired bool
	err      error
	released []string
}

func (g *stubGuard) Acquire(context.Context, string) (bool, error) { return g.acquired, g.err }
func (g *stubGuard) Release(_ context.Context, paymentID string) {
	g.released = append(g.released, paymentID)
}

func newPaymentEnv(t *testing.T, guard ReplayGuard) (*testEnv, *payment.MockGateway, PaymentService) {
	t.Helper()
	env := newTestEnv(t)
	gateway := payment.NewMockGateway(gomock.NewController(t))
	svc := NewPaymentService(gateway, env.donations(), env.repos.Donations, guard, env.metrics, PaymentConfig{MinAmount: 1}, env.log)
	return env, gateway, svc
}

func verifyRequest() *validators.VerifyPaymentRequest {
	return &validators.VerifyPaymentRequest{
		OrderID:    "order_1",
		PaymentID:  "pay_1",
		Signature:  "sig",
		Amount:     500,
		DonorName:  "Meera",
		DonorEmail: "meera@example.org",
	}
}

func TestVerifyPayment_RecordsDonation(t *testing.T) {
	guard := &stubGuard{acquired: true}
	env, gateway, svc := newPaymentEnv(t, guard)
	ctx := context.Background()

	gateway.EXPECT().VerifySignature(gomock.Any(), "order_1", "pay_1", "sig").Return(true, nil)
	gateway.EXPECT().FetchPayment(gomock.Any(), "pay_1").Return(&payment.Payment{
		ID: "pay_1", OrderID: "order_1", Status: payment.StatusCaptured, Amount: 500.004,
	}, nil)
	gateway.EXPECT().Name().Return("razorpay")

	result, err := svc.VerifyPayment(ctx, nil, verifyRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodRazorpay, result.Donation.PaymentMethod)
	assert.Equal(t, "pay_1", result.Donation.PaymentID)
	assert.Equal(t, "order_1", result.Donation.OrderID)
	assert.Equal(t, 500.004, result.Donation.Amount)
	assert.Equal(t, []string{"pay_1"}, guard.released)

	stored, err := env.repos.Donations.GetByPaymentID(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)

	_, err = svc.VerifyPayment(ctx, nil, verifyRequest())
	assertAppError(t, err, utils.KindConflict, "PAYMENT_ALREADY_RECORDED")
}

func TestVerifyPayment_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		expect func(g *payment.MockGatewayMockRecorder)
		kind   utils.ErrorKind
	}{
		{
			name: "bad signature",
			expect: func(g *payment.MockGatewayMockRecorder) {
				g.VerifySignature(gomock.Any(), "order_1", "pay_1", "sig").Return(false, nil)
			},
			kind: utils.KindValidation,
		},
		{
			name: "signature check fails",
			expect: func(g *payment.MockGatewayMockRecorder) {
				g.VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))
			},
			kind: utils.KindDependency,
		},
		{
			name: "not captured",
			expect: func(g *payment.MockGatewayMockRecorder) {
				g.VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				g.FetchPayment(gomock.Any(), "pay_1").Return(&payment.Payment{ID: "pay_1", OrderID: "order_1", Status: payment.StatusFailed}, nil)
			},
			kind: utils.KindValidation,
		},
		{
			name: "other order",
			expect: func(g *payment.MockGatewayMockRecorder) {
				g.VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				g.FetchPayment(gomock.Any(), "pay_1").Return(&payment.Payment{ID: "pay_1", OrderID: "order_2", Status: payment.StatusCaptured, Amount: 500}, nil)
			},
			kind: utils.KindValidation,
		},
		{
			name: "amount mismatch",
			expect: func(g *payment.MockGatewayMockRecorder) {
				g.VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				g.FetchPayment(gomock.Any(), "pay_1").Return(&payment.Payment{ID: "pay_1", OrderID: "order_1", Status: payment.StatusCaptured, Amount: 5}, nil)
			},
			kind: utils.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, gateway, svc := newPaymentEnv(t, nil)
			tt.expect(gateway.EXPECT())

			_, err := svc.VerifyPayment(context.Background(), nil, verifyRequest())
			assertAppError(t, err, tt.kind, "")

			_, total, err := env.repos.Donations.List(context.Background(), models.DonationFilter{}, nil)
			require.NoError(t, err)
			assert.Zero(t, total)
		})
	}
}

func TestVerifyPayment_InProgress(t *testing.T) {
	guard := &stubGuard{acquired: false}
	_, _, svc := newPaymentEnv(t, guard)

	_, err := svc.VerifyPayment(context.Background(), nil, verifyRequest())
	assertAppError(t, err, utils.KindConflict, "PAYMENT_VERIFICATION_IN_PROGRESS")
	assert.True(t, errors.Is(err, ErrPaymentReplayed))
	assert.Empty(t, guard.released)
}

func TestVerifyPayment_GuardOutageFallsThrough(t *testing.T) {
	guard := &stubGuard{err: errors.New("redis down")}
	_, gateway, svc := newPaymentEnv(t, guard)

	gateway.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	gateway.EXPECT().FetchPayment(gomock.Any(), "pay_1").Return(&payment.Payment{ID: "pay_1", Status: payment.StatusAuthorized}, nil)
	gateway.EXPECT().Name().Return("stripe")

	result, err := svc.VerifyPayment(context.Background(), nil, verifyRequest())
	require.NoError(t, err)
	assert.Equal(t, 500.0, result.Donation.Amount)
	assert.Empty(t, guard.released)
}

func TestPaymentService_WithoutGateway(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPaymentService(nil, env.donations(), env.repos.Donations, nil, env.metrics, PaymentConfig{}, env.log)

	_, err := svc.CreateOrder(context.Background(), &validators.CreateOrderRequest{Amount: 100})
	assertAppError(t, err, utils.KindDependency, "")
	assert.True(t, errors.Is(err, payment.ErrNotConfigured))

	_, err = svc.PaymentStatus(context.Background(), "pay_1")
	assert.True(t, errors.Is(err, payment.ErrNotConfigured))
}

func TestCreateOrder(t *testing.T) {
	_, gateway, svc := newPaymentEnv(t, nil)

	_, err := svc.CreateOrder(context.Background(), &validators.CreateOrderRequest{Amount: 0.5})
	assertAppError(t, err, utils.KindValidation, "")

	gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *payment.OrderRequest) (*payment.Order, error) {
			assert.Equal(t, utils.DefaultCurrency, req.Currency)
			assert.NotEmpty(t, req.Receipt)
			return &payment.Order{ID: "order_9", Amount: req.Amount, Currency: req.Currency, Status: payment.StatusCreated}, nil
		})

	order, err := svc.CreateOrder(context.Background(), &validators.CreateOrderRequest{Amount: 250})
	require.NoError(t, err)
	assert.Equal(t, "order_9", order.ID)
}

func TestRefund(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t, nil)
	ctx := context.Background()

	donation := &models.Donation{
		Amount:        300,
		DonorName:     "Kiran",
		DonorEmail:    "kiran@example.org",
		PaymentID:     "pay_r",
		PaymentStatus: models.PaymentStatusCompleted,
	}
	require.NoError(t, env.repos.Donations.Create(ctx, donation))

	_, err := svc.Refund(ctx, primitive.NewObjectID(), &validators.RefundRequest{PaymentID: "pay_r", Amount: 301})
	assertAppError(t, err, utils.KindValidation, "")

	gateway.EXPECT().Refund(gomock.Any(), &payment.RefundRequest{PaymentID: "pay_r", Amount: 0, Reason: "duplicate"}).
		Return(&payment.Refund{ID: "rfnd_1", PaymentID: "pay_r", Amount: 300, Status: "processed"}, nil)

	refunded, err := svc.Refund(ctx, primitive.NewObjectID(), &validators.RefundRequest{PaymentID: "pay_r", Reason: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.PaymentStatus)
	assert.Equal(t, "rfnd_1", refunded.RefundID)

	_, err = svc.Refund(ctx, primitive.NewObjectID(), &validators.RefundRequest{PaymentID: "pay_r"})
	assertAppError(t, err, utils.KindConflict, "DONATION_NOT_REFUNDABLE")

	_, err = svc.Refund(ctx, primitive.NewObjectID(), &validators.RefundRequest{PaymentID: "pay_missing"})
	assertAppError(t, err, utils.KindNotFound, "")
}
