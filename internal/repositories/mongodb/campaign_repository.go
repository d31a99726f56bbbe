package mongodb

import (
	"context"
	"errors"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type campaignRepository struct {
	collection *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) interfaces.CampaignRepository {
	return &campaignRepository{
		collection: db.Collection(database.CollectionCampaigns),
	}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	now := time.Now()
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, campaign)
	return wrapError("create campaign", err)
}

func (r *campaignRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	return findOne[models.Campaign](ctx, r.collection, bson.M{"_id": id}, "get campaign")
}

func (r *campaignRepository) List(ctx context.Context, filter models.CampaignFilter, params *utils.PaginationParams) ([]*models.Campaign, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if params != nil && params.Search != "" {
		for k, v := range params.GetSearchFilter([]string{"title", "description"}) {
			query[k] = v
		}
	}
	return findPage[models.Campaign](ctx, r.collection, query, params, "list campaigns")
}

func (r *campaignRepository) IncrementTotals(ctx context.Context, id primitive.ObjectID, amount float64) error {
	err := updateOne(ctx, r.collection,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"current_amount": amount, "donors": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		"increment campaign totals",
	)
	if errors.Is(err, interfaces.ErrNoMatch) {
		return interfaces.ErrNotFound
	}
	return err
}
