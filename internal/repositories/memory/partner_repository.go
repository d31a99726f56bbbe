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

type partnerRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.Partner
	byOwner map[primitive.ObjectID]primitive.ObjectID
}

func NewPartnerRepository() interfaces.PartnerRepository {
	return &partnerRepository{
		byID:    make(map[primitive.ObjectID]*models.Partner),
		byOwner: make(map[primitive.ObjectID]primitive.ObjectID),
	}
}

func (r *partnerRepository) Create(_ context.Context, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[partner.CreatedBy]; ok {
		return fmt.Errorf("failed to create partner: %w", interfaces.ErrDuplicateKey)
	}
	now := time.Now()
	partner.ID = primitive.NewObjectID()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	r.byID[partner.ID] = copyPtr(partner)
	r.byOwner[partner.CreatedBy] = partner.ID
	return nil
}

func (r *partnerRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partner, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(partner), nil
}

func (r *partnerRepository) GetByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Partner, error) {
	r.mu.RLock()
	id, ok := r.byOwner[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *partnerRepository) List(_ context.Context, filter models.PartnerFilter, params *utils.PaginationParams) ([]*models.Partner, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*models.Partner, 0, len(r.byID))
	for _, p := range r.byID {
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.City != "" && p.City != filter.City {
			continue
		}
		docs = append(docs, p)
	}
	out, total := page(docs, params, byCreatedAt(func(p *models.Partner) (time.Time, primitive.ObjectID) {
		return p.CreatedAt, p.ID
	}))
	return out, total, nil
}

func (r *partnerRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.PartnerStatus, reviewer primitive.ObjectID, at time.Time) (*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	partner, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	partner.Status = status
	partner.ReviewedBy = &reviewer
	partner.ReviewedAt = &at
	partner.UpdatedAt = at
	return copyPtr(partner), nil
}

func (r *partnerRepository) UpdatePhoto(_ context.Context, id primitive.ObjectID, photo, thumbnail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	partner, ok := r.byID[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	partner.Photo = photo
	partner.Thumbnail = thumbnail
	partner.UpdatedAt = time.Now()
	return nil
}
