package interfaces

import (
	"context"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter, params *utils.PaginationParams) ([]*models.Campaign, int64, error)

	// IncrementTotals adds amount to current_amount and one to donors in a single update.
	IncrementTotals(ctx context.Context, id primitive.ObjectID, amount float64) error
}
