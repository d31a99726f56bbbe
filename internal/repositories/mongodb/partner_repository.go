package mongodb

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type partnerRepository struct {
	collection *mongo.Collection
}

func NewPartnerRepository(db *mongo.Database) interfaces.PartnerRepository {
	return &partnerRepository{
		collection: db.Collection(database.CollectionPartners),
	}
}

func (r *partnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	now := time.Now()
	partner.ID = primitive.NewObjectID()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, partner)
	return wrapError("create partner", err)
}

func (r *partnerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Partner, error) {
	return findOne[models.Partner](ctx, r.collection, bson.M{"_id": id}, "get partner")
}

func (r *partnerRepository) GetByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Partner, error) {
	return findOne[models.Partner](ctx, r.collection, bson.M{"created_by": userID}, "get partner by owner")
}

func (r *partnerRepository) List(ctx context.Context, filter models.PartnerFilter, params *utils.PaginationParams) ([]*models.Partner, int64, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	return findPage[models.Partner](ctx, r.collection, query, params, "list partners")
}

func (r *partnerRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PartnerStatus, reviewer primitive.ObjectID, at time.Time) (*models.Partner, error) {
	var partner models.Partner
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":      status,
			"reviewed_by": reviewer,
			"reviewed_at": at,
			"updated_at":  at,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&partner)
	if err != nil {
		return nil, wrapError("update partner status", err)
	}
	return &partner, nil
}

func (r *partnerRepository) UpdatePhoto(ctx context.Context, id primitive.ObjectID, photo, thumbnail string) error {
	return setByID(ctx, r.collection, id, bson.M{
		"photo":      photo,
		"thumbnail":  thumbnail,
		"updated_at": time.Now(),
	}, "update partner photo")
}
