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

type couponClaimRepository struct {
	mu       sync.RWMutex
	byID     map[primitive.ObjectID]*models.CouponClaim
	byCoupon map[primitive.ObjectID]primitive.ObjectID
}

func NewCouponClaimRepository() interfaces.CouponClaimRepository {
	return &couponClaimRepository{
		byID:     make(map[primitive.ObjectID]*models.CouponClaim),
		byCoupon: make(map[primitive.ObjectID]primitive.ObjectID),
	}
}

func (r *couponClaimRepository) Create(_ context.Context, claim *models.CouponClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCoupon[claim.CouponID]; ok {
		return fmt.Errorf("failed to create coupon claim: %w", interfaces.ErrDuplicateKey)
	}
	now := time.Now()
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	r.byID[claim.ID] = copyPtr(claim)
	r.byCoupon[claim.CouponID] = claim.ID
	return nil
}

func (r *couponClaimRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.CouponClaim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	claim, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(claim), nil
}

func (r *couponClaimRepository) GetByCouponID(ctx context.Context, couponID primitive.ObjectID) (*models.CouponClaim, error) {
	r.mu.RLock()
	id, ok := r.byCoupon[couponID]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *couponClaimRepository) List(_ context.Context, filter models.ClaimFilter, params *utils.PaginationParams) ([]*models.CouponClaim, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*models.CouponClaim, 0)
	for _, c := range r.byID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.PartnerUserID != nil && c.PartnerUserID != *filter.PartnerUserID {
			continue
		}
		docs = append(docs, c)
	}
	out, total := page(docs, params, func(c *models.CouponClaim, field string) (time.Time, primitive.ObjectID) {
		if field == "requested_at" {
			return c.RequestedAt, c.ID
		}
		return c.CreatedAt, c.ID
	})
	return out, total, nil
}

func (r *couponClaimRepository) Transition(_ context.Context, id primitive.ObjectID, t models.ClaimTransition) (*models.CouponClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.byID[id]
	if !ok || claim.Status != t.From {
		return nil, interfaces.ErrNoMatch
	}

	actor, at := t.Actor, t.At
	claim.Status = t.To
	claim.UpdatedAt = at
	switch t.To {
	case models.ClaimStatusApproved:
		claim.ReviewedAt = &at
		claim.ReviewedBy = &actor
	case models.ClaimStatusRejected:
		claim.ReviewedAt = &at
		claim.ReviewedBy = &actor
		claim.RejectionReason = t.Reason
	case models.ClaimStatusPaid:
		claim.PaidAt = &at
		claim.PaidBy = &actor
	}
	return copyPtr(claim), nil
}
