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

type couponClaimRepository struct {
	collection *mongo.Collection
}

func NewCouponClaimRepository(db *mongo.Database) interfaces.CouponClaimRepository {
	return &couponClaimRepository{
		collection: db.Collection(database.CollectionCouponClaims),
	}
}

func (r *couponClaimRepository) Create(ctx context.Context, claim *models.CouponClaim) error {
	now := time.Now()
	claim.ID = primitive.NewObjectID()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, claim)
	return wrapError("create coupon claim", err)
}

func (r *couponClaimRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CouponClaim, error) {
	return findOne[models.CouponClaim](ctx, r.collection, bson.M{"_id": id}, "get coupon claim")
}

func (r *couponClaimRepository) GetByCouponID(ctx context.Context, couponID primitive.ObjectID) (*models.CouponClaim, error) {
	return findOne[models.CouponClaim](ctx, r.collection, bson.M{"coupon_id": couponID}, "get coupon claim by coupon")
}

func (r *couponClaimRepository) List(ctx context.Context, filter models.ClaimFilter, params *utils.PaginationParams) ([]*models.CouponClaim, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PartnerUserID != nil {
		query["partner_user_id"] = *filter.PartnerUserID
	}
	return findPage[models.CouponClaim](ctx, r.collection, query, params, "list coupon claims")
}

func (r *couponClaimRepository) Transition(ctx context.Context, id primitive.ObjectID, t models.ClaimTransition) (*models.CouponClaim, error) {
	set := bson.M{
		"status":     t.To,
		"updated_at": t.At,
	}
	switch t.To {
	case models.ClaimStatusApproved:
		set["reviewed_at"] = t.At
		set["reviewed_by"] = t.Actor
	case models.ClaimStatusRejected:
		set["reviewed_at"] = t.At
		set["reviewed_by"] = t.Actor
		set["rejection_reason"] = t.Reason
	case models.ClaimStatusPaid:
		set["paid_at"] = t.At
		set["paid_by"] = t.Actor
	}

	var claim models.CouponClaim
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": t.From},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&claim)
	if err == mongo.ErrNoDocuments {
		return nil, interfaces.ErrNoMatch
	}
	if err != nil {
		return nil, wrapError("transition coupon claim", err)
	}
	return &claim, nil
}
