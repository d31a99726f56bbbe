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

type couponRepository struct {
	mu     sync.RWMutex
	byID   map[primitive.ObjectID]*models.Coupon
	byCode map[string]primitive.ObjectID
}

func NewCouponRepository() interfaces.CouponRepository {
	return &couponRepository{
		byID:   make(map[primitive.ObjectID]*models.Coupon),
		byCode: make(map[string]primitive.ObjectID),
	}
}

func (r *couponRepository) Create(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[coupon.Code]; ok {
		return fmt.Errorf("failed to create coupon: %w", interfaces.ErrDuplicateKey)
	}
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	r.byID[coupon.ID] = copyPtr(coupon)
	r.byCode[coupon.Code] = coupon.ID
	return nil
}

func (r *couponRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(coupon), nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	id, ok := r.byCode[code]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *couponRepository) List(_ context.Context, filter models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*models.Coupon, 0, len(r.byID))
	for _, c := range r.byID {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.CreatedBy != nil && c.CreatedBy != *filter.CreatedBy {
			continue
		}
		docs = append(docs, c)
	}
	out, total := page(docs, params, byCreatedAt(func(c *models.Coupon) (time.Time, primitive.ObjectID) {
		return c.CreatedAt, c.ID
	}))
	return out, total, nil
}

func (r *couponRepository) IncrementUsage(_ context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.byID[id]
	if !ok || !coupon.IsActive || now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return nil, interfaces.ErrNoMatch
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, interfaces.ErrNoMatch
	}
	coupon.UsedCount++
	coupon.UpdatedAt = now
	return copyPtr(coupon), nil
}
