package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type campaignRepository struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Campaign
}

func NewCampaignRepository() interfaces.CampaignRepository {
	return &campaignRepository{byID: make(map[primitive.ObjectID]*models.Campaign)}
}

func (r *campaignRepository) Create(_ context.Context, campaign *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	r.byID[campaign.ID] = copyPtr(campaign)
	return nil
}

func (r *campaignRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	campaign, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(campaign), nil
}

func (r *campaignRepository) List(_ context.Context, filter models.CampaignFilter, params *utils.PaginationParams) ([]*models.Campaign, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var search string
	if params != nil {
		search = strings.ToLower(params.Search)
	}
	docs := make([]*models.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Description), search) {
			continue
		}
		docs = append(docs, c)
	}
	out, total := page(docs, params, byCreatedAt(func(c *models.Campaign) (time.Time, primitive.ObjectID) {
		return c.CreatedAt, c.ID
	}))
	return out, total, nil
}

func (r *campaignRepository) IncrementTotals(_ context.Context, id primitive.ObjectID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, ok := r.byID[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	campaign.CurrentAmount += amount
	campaign.Donors++
	campaign.UpdatedAt = time.Now()
	return nil
}
