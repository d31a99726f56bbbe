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

type couponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection(database.CollectionCoupons),
	}
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, coupon)
	return wrapError("create coupon", err)
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.collection, bson.M{"_id": id}, "get coupon")
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.collection, bson.M{"code": code}, "get coupon by code")
}

func (r *couponRepository) List(ctx context.Context, filter models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	if filter.CreatedBy != nil {
		query["created_by"] = *filter.CreatedBy
	}
	return findPage[models.Coupon](ctx, r.collection, query, params, "list coupons")
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"_id":         id,
			"is_active":   true,
			"valid_from":  bson.M{"$lte": now},
			"valid_until": bson.M{"$gte": now},
			"$or": bson.A{
				bson.M{"usage_limit": 0},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$used_count", "$usage_limit"}}},
			},
		},
		bson.M{
			"$inc": bson.M{"used_count": 1},
			"$set": bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, interfaces.ErrNoMatch
	}
	if err != nil {
		return nil, wrapError("increment coupon usage", err)
	}
	return &coupon, nil
}
