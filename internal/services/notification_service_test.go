package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/mailer"
	"carefoundation/pkg/sms"
	"carefoundation/pkg/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type outbox struct {
	sent []*mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg *mailer.Message) error {
	o.sent = append(o.sent, msg)
	return o.err
}

type smsLog struct {
	sent []*sms.SMSRequest
}

func (s *smsLog) Name() string { return "test" }

func (s *smsLog) SendSMS(_ context.Context, req *sms.SMSRequest) (*sms.SMSResponse, error) {
	s.sent = append(s.sent, req)
	return &sms.SMSResponse{MessageID: "m1", Status: "queued"}, nil
}

type published struct {
	toUser  map[primitive.ObjectID][]string
	toAdmin []string
}

func (p *published) SendToUser(userID primitive.ObjectID, msg websocket.Message) {
	if p.toUser == nil {
		p.toUser = map[primitive.ObjectID][]string{}
	}
	p.toUser[userID] = append(p.toUser[userID], msg.Type)
}

func (p *published) BroadcastToAdmins(msg websocket.Message) {
	p.toAdmin = append(p.toAdmin, msg.Type)
}

func TestNotifications_CouponMinted(t *testing.T) {
	mail, events := &outbox{}, &published{}
	svc := NewNotificationService(mail, nil, events, "INR", logger.NewNop())

	coupon := &models.DonationCoupon{
		ID:         primitive.NewObjectID(),
		Code:       "COUPON-1A2B-3C4D-5E6F",
		QRCode:     "data:image/png;base64,AAAA",
		UserID:     primitive.NewObjectID(),
		Amount:     1500,
		ExpiryDate: time.Date(2026, time.November, 19, 0, 0, 0, 0, time.UTC),
	}
	donation := &models.Donation{DonorName: "Asha", DonorEmail: "asha@example.org"}

	err := svc.CouponMinted(context.Background(), donation, coupon, &models.Partner{Name: "City Clinic"})
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "asha@example.org", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Subject, coupon.Code)
	assert.Contains(t, mail.sent[0].HTML, "INR 1500.00")
	assert.Equal(t, []string{utils.EventCouponMinted}, events.toUser[coupon.UserID])
}

func TestNotifications_ClaimReviewed(t *testing.T) {
	mail, texts, events := &outbox{err: errors.New("smtp down")}, &smsLog{}, &published{}
	svc := NewNotificationService(mail, texts, events, "", logger.NewNop())

	claim := &models.CouponClaim{
		ID:              primitive.NewObjectID(),
		CouponCode:      "COUPON-1A2B-3C4D-5E6F",
		PartnerUserID:   primitive.NewObjectID(),
		Amount:          500,
		Status:          models.ClaimStatusRejected,
		RejectionReason: "Duplicate invoice",
	}
	partner := &models.Partner{Name: "City Clinic", Email: "clinic@example.org", Phone: "9876543210"}

	err := svc.ClaimReviewed(context.Background(), claim, partner)
	assert.Error(t, err)

	assert.Equal(t, []string{utils.EventClaimRejected}, events.toUser[claim.PartnerUserID])
	assert.Equal(t, []string{utils.EventClaimRejected}, events.toAdmin)
	require.Len(t, texts.sent, 1)
	assert.Equal(t, "+919876543210", texts.sent[0].To)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].HTML, "Duplicate invoice")
}

func TestNotifications_NoChannels(t *testing.T) {
	svc := NewNotificationService(nil, nil, nil, "INR", logger.NewNop())
	claim := &models.CouponClaim{ID: primitive.NewObjectID(), Status: models.ClaimStatusPaid}

	assert.NoError(t, svc.ClaimCreated(context.Background(), claim))
	assert.NoError(t, svc.ClaimReviewed(context.Background(), claim, &models.Partner{Email: "p@example.org", Phone: "9876543210"}))
	assert.NoError(t, svc.AccountPending(context.Background(), &models.User{Email: "u@example.org"}))
}
