package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type donationRepository struct {
	mu          sync.RWMutex
	byID        map[primitive.ObjectID]*models.Donation
	byPaymentID map[string]primitive.ObjectID
}

func NewDonationRepository() interfaces.DonationRepository {
	return &donationRepository{
		byID:        make(map[primitive.ObjectID]*models.Donation),
		byPaymentID: make(map[string]primitive.ObjectID),
	}
}

func (r *donationRepository) Create(_ context.Context, donation *models.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if donation.PaymentID != "" {
		if _, ok := r.byPaymentID[donation.PaymentID]; ok {
			return fmt.Errorf("failed to create donation: %w", interfaces.ErrDuplicateKey)
		}
	}
	now := time.Now()
	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	r.byID[donation.ID] = copyPtr(donation)
	if donation.PaymentID != "" {
		r.byPaymentID[donation.PaymentID] = donation.ID
	}
	return nil
}

func (r *donationRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	donation, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(donation), nil
}

func (r *donationRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Donation, error) {
	r.mu.RLock()
	id, ok := r.byPaymentID[paymentID]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *donationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	return r.list(func(d *models.Donation) bool {
		return d.UserID != nil && *d.UserID == userID
	}, params)
}

func (r *donationRepository) List(_ context.Context, filter models.DonationFilter, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	return r.list(func(d *models.Donation) bool {
		if filter.PaymentStatus != "" && d.PaymentStatus != filter.PaymentStatus {
			return false
		}
		if filter.CampaignID != nil && (d.CampaignID == nil || *d.CampaignID != *filter.CampaignID) {
			return false
		}
		if filter.PartnerID != nil && (d.PartnerID == nil || *d.PartnerID != *filter.PartnerID) {
			return false
		}
		return true
	}, params)
}

func (r *donationRepository) list(match func(*models.Donation) bool, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*models.Donation, 0)
	for _, d := range r.byID {
		if match(d) {
			docs = append(docs, d)
		}
	}
	out, total := page(docs, params, byCreatedAt(func(d *models.Donation) (time.Time, primitive.ObjectID) {
		return d.CreatedAt, d.ID
	}))
	return out, total, nil
}

func (r *donationRepository) MarkRefunded(_ context.Context, id primitive.ObjectID, refundID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	donation, ok := r.byID[id]
	if !ok || donation.PaymentStatus != models.PaymentStatusCompleted {
		return interfaces.ErrNoMatch
	}
	donation.PaymentStatus = models.PaymentStatusRefunded
	donation.RefundID = refundID
	donation.RefundedAt = &at
	donation.UpdatedAt = at
	return nil
}
