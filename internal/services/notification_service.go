package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/mailer"
	"carefoundation/pkg/sms"
	"carefoundation/pkg/websocket"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher pushes realtime events; *websocket.Hub satisfies it.
type EventPublisher interface {
	SendToUser(userID primitive.ObjectID, msg websocket.Message)
	BroadcastToAdmins(msg websocket.Message)
}

type NotificationService interface {
	AccountPending(ctx context.Context, user *models.User) error
	CouponMinted(ctx context.Context, donation *models.Donation, coupon *models.DonationCoupon, partner *models.Partner) error
	ClaimCreated(ctx context.Context, claim *models.CouponClaim) error
	ClaimReviewed(ctx context.Context, claim *models.CouponClaim, partner *models.Partner) error
}

type notificationService struct {
	mailer   mailer.Mailer
	sms      sms.Provider
	events   EventPublisher
	currency string
	logger   *logger.Logger
}

// NewNotificationService accepts nil for any channel that is not configured.
func NewNotificationService(m mailer.Mailer, smsProvider sms.Provider, events EventPublisher, currency string, log *logger.Logger) NotificationService {
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &notificationService{
		mailer:   m,
		sms:      smsProvider,
		events:   events,
		currency: currency,
		logger:   log,
	}
}

func (s *notificationService) money(amount float64) string {
	return s.currency + " " + decimal.NewFromFloat(amount).StringFixed(2)
}

func (s *notificationService) AccountPending(ctx context.Context, user *models.User) error {
	return s.email(ctx, user.Email, "Your Care Foundation account is pending approval",
		fmt.Sprintf("<p>Hello %s,</p><p>Your %s account is pending admin approval. You will be able to sign in once it is approved.</p>",
			template.HTMLEscapeString(user.Name), template.HTMLEscapeString(string(user.Role))))
}

func (s *notificationService) CouponMinted(ctx context.Context, donation *models.Donation, coupon *models.DonationCoupon, partner *models.Partner) error {
	var errs []error

	if donation.DonorEmail != "" {
		body, err := mailer.RenderCouponMinted(mailer.CouponMintedData{
			DonorName:   donation.DonorName,
			PartnerName: partner.Name,
			Code:        coupon.Code,
			Amount:      s.money(coupon.Amount),
			ExpiryDate:  coupon.ExpiryDate.Format("02 Jan 2006"),
			QRCode:      template.URL(coupon.QRCode),
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, s.email(ctx, donation.DonorEmail, "Your donation coupon "+coupon.Code, body))
		}
	}

	if s.events != nil {
		s.events.SendToUser(coupon.UserID, websocket.Message{
			Type: utils.EventCouponMinted,
			Data: map[string]interface{}{
				"coupon_id":   coupon.ID.Hex(),
				"code":        coupon.Code,
				"amount":      coupon.Amount,
				"expiry_date": coupon.ExpiryDate,
			},
		})
	}

	return errors.Join(errs...)
}

func (s *notificationService) ClaimCreated(_ context.Context, claim *models.CouponClaim) error {
	if s.events != nil {
		s.events.BroadcastToAdmins(claimEvent(utils.EventClaimCreated, claim))
	}
	return nil
}

func (s *notificationService) ClaimReviewed(ctx context.Context, claim *models.CouponClaim, partner *models.Partner) error {
	event := claimEventType(claim.Status)
	if s.events != nil {
		msg := claimEvent(event, claim)
		s.events.SendToUser(claim.PartnerUserID, msg)
		s.events.BroadcastToAdmins(msg)
	}
	if partner == nil {
		return nil
	}

	var errs []error
	if partner.Phone != "" && s.sms != nil {
		_, err := s.sms.SendSMS(ctx, &sms.SMSRequest{
			To:      sms.NormalizeIndianNumber(partner.Phone),
			Message: fmt.Sprintf("Care Foundation: your claim for coupon %s (%s) is %s.", claim.CouponCode, s.money(claim.Amount), claim.Status),
			Type:    "transactional",
		})
		errs = append(errs, err)
	}

	if partner.Email != "" {
		body, err := mailer.RenderClaimStatus(mailer.ClaimStatusData{
			PartnerName: partner.Name,
			Code:        claim.CouponCode,
			Amount:      s.money(claim.Amount),
			Status:      string(claim.Status),
			Reason:      claim.RejectionReason,
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, s.email(ctx, partner.Email, "Coupon claim "+string(claim.Status), body))
		}
	}

	return errors.Join(errs...)
}

func (s *notificationService) email(ctx context.Context, to, subject, html string) error {
	if s.mailer == nil || to == "" {
		return nil
	}
	return s.mailer.Send(ctx, &mailer.Message{To: to, Subject: subject, HTML: html})
}

func claimEventType(status models.ClaimStatus) string {
	switch status {
	case models.ClaimStatusApproved:
		return utils.EventClaimApproved
	case models.ClaimStatusRejected:
		return utils.EventClaimRejected
	case models.ClaimStatusPaid:
		return utils.EventClaimPaid
	}
	return utils.EventClaimCreated
}

func claimEvent(event string, claim *models.CouponClaim) websocket.Message {
	data := map[string]interface{}{
		"claim_id":    claim.ID.Hex(),
		"coupon_code": claim.CouponCode,
		"amount":      claim.Amount,
		"status":      claim.Status,
		"partner_id":  claim.PartnerID.Hex(),
	}
	if claim.RejectionReason != "" {
		data["rejection_reason"] = claim.RejectionReason
	}
	return websocket.Message{Type: event, Data: data}
}
