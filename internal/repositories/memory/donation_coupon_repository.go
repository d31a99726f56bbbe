package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type donationCouponRepository struct {
	mu     sync.RWMutex
	byID   map[primitive.ObjectID]*models.DonationCoupon
	byCode map[string]primitive.ObjectID
}

func NewDonationCouponRepository() interfaces.DonationCouponRepository {
	return &donationCouponRepository{
		byID:   make(map[primitive.ObjectID]*models.DonationCoupon),
		byCode: make(map[string]primitive.ObjectID),
	}
}

func (r *donationCouponRepository) Create(_ context.Context, coupon *models.DonationCoupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[coupon.Code]; ok {
		return fmt.Errorf("failed to create donation coupon: %w", interfaces.ErrDuplicateKey)
	}
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = now
	}
	coupon.UpdatedAt = now

	r.byID[coupon.ID] = copyPtr(coupon)
	r.byCode[coupon.Code] = coupon.ID
	return nil
}

func (r *donationCouponRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.DonationCoupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(coupon), nil
}

func (r *donationCouponRepository) GetByCode(ctx context.Context, code string) (*models.DonationCoupon, error) {
	r.mu.RLock()
	id, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *donationCouponRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byCode[code]
	return ok, nil
}

func (r *donationCouponRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*models.DonationCoupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.DonationCoupon, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, copyPtr(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r *donationCouponRepository) MarkUsed(_ context.Context, id, redeemedBy primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.byID[id]
	if !ok || !coupon.CanBeUsed(at) {
		return interfaces.ErrNoMatch
	}
	coupon.Status = models.DonationCouponStatusUsed
	coupon.RedeemedBy = &redeemedBy
	coupon.RedeemedAt = &at
	coupon.UpdatedAt = at
	return nil
}

func (r *donationCouponRepository) MarkExpired(_ context.Context, id primitive.ObjectID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.byID[id]
	if !ok || !coupon.Overdue(now) {
		return false, nil
	}
	coupon.Status = models.DonationCouponStatusExpired
	coupon.UpdatedAt = now
	return true, nil
}
