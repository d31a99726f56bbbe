package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		minor  int64
	}{
		{500, 50000},
		{0.1, 10},
		{19.99, 1999},
		{1.005, 101},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.minor, ToMinorUnits(tt.amount), "amount %v", tt.amount)
	}
	assert.Equal(t, 19.99, FromMinorUnits(1999))
}

func sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func TestRazorpayVerifySignature(t *testing.T) {
	gw := NewRazorpayGateway("rzp_test_key", "topsecret")
	valid := sign("topsecret", "order_123|pay_456")

	ok, err := gw.VerifySignature(context.Background(), "order_123", "pay_456", valid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.VerifySignature(context.Background(), "order_123", "pay_789", valid)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = gw.VerifySignature(context.Background(), "order_123", "pay_456", sign("othersecret", "order_123|pay_456"))
	require.NoError(t, err)
	assert.False(t, ok)

	unconfigured := NewRazorpayGateway("", "")
	_, err = unconfigured.VerifySignature(context.Background(), "order_123", "pay_456", valid)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPaymentSuccessful(t *testing.T) {
	assert.True(t, (&Payment{Status: StatusCaptured}).Successful())
	assert.True(t, (&Payment{Status: StatusAuthorized}).Successful())
	assert.False(t, (&Payment{Status: StatusFailed}).Successful())
	assert.False(t, (&Payment{Status: StatusCreated}).Successful())
}

func TestIntField(t *testing.T) {
	m := map[string]interface{}{"a": float64(5000), "b": 7, "c": "x"}
	assert.EqualValues(t, 5000, intField(m, "a"))
	assert.EqualValues(t, 7, intField(m, "b"))
	assert.EqualValues(t, 0, intField(m, "c"))
	assert.Equal(t, "x", stringField(m, "c"))
}
