package mongodb

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type donationCouponRepository struct {
	collection *mongo.Collection
}

func NewDonationCouponRepository(db *mongo.Database) interfaces.DonationCouponRepository {
	return &donationCouponRepository{
		collection: db.Collection(database.CollectionDonationCoupons),
	}
}

func (r *donationCouponRepository) Create(ctx context.Context, coupon *models.DonationCoupon) error {
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = now
	}
	coupon.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, coupon)
	return wrapError("create donation coupon", err)
}

func (r *donationCouponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DonationCoupon, error) {
	return findOne[models.DonationCoupon](ctx, r.collection, bson.M{"_id": id}, "get donation coupon")
}

func (r *donationCouponRepository) GetByCode(ctx context.Context, code string) (*models.DonationCoupon, error) {
	return findOne[models.DonationCoupon](ctx, r.collection, bson.M{"code": code}, "get donation coupon by code")
}

func (r *donationCouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, wrapError("check donation coupon code", err)
	}
	return count > 0, nil
}

func (r *donationCouponRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.DonationCoupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[models.DonationCoupon](ctx, r.collection, bson.M{"user_id": userID}, opts, "list donation coupons")
}

func (r *donationCouponRepository) MarkUsed(ctx context.Context, id, redeemedBy primitive.ObjectID, at time.Time) error {
	return updateOne(ctx, r.collection,
		bson.M{
			"_id":         id,
			"status":      models.DonationCouponStatusActive,
			"expiry_date": bson.M{"$gt": at},
		},
		bson.M{"$set": bson.M{
			"status":      models.DonationCouponStatusUsed,
			"redeemed_by": redeemedBy,
			"redeemed_at": at,
			"updated_at":  at,
		}},
		"mark donation coupon used",
	)
}

func (r *donationCouponRepository) MarkExpired(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":         id,
			"status":      models.DonationCouponStatusActive,
			"expiry_date": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{
			"status":     models.DonationCouponStatusExpired,
			"updated_at": now,
		}},
	)
	if err != nil {
		return false, wrapError("expire donation coupon", err)
	}
	return result.ModifiedCount == 1, nil
}
