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
)

type donationRepository struct {
	collection *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) interfaces.DonationRepository {
	return &donationRepository{
		collection: db.Collection(database.CollectionDonations),
	}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	now := time.Now()
	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, donation)
	return wrapError("create donation", err)
}

func (r *donationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	return findOne[models.Donation](ctx, r.collection, bson.M{"_id": id}, "get donation")
}

func (r *donationRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Donation, error) {
	return findOne[models.Donation](ctx, r.collection, bson.M{"payment_id": paymentID}, "get donation by payment")
}

func (r *donationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	return findPage[models.Donation](ctx, r.collection, bson.M{"user_id": userID}, params, "list user donations")
}

func (r *donationRepository) List(ctx context.Context, filter models.DonationFilter, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	query := bson.M{}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	if filter.CampaignID != nil {
		query["campaign_id"] = *filter.CampaignID
	}
	if filter.PartnerID != nil {
		query["partner_id"] = *filter.PartnerID
	}
	return findPage[models.Donation](ctx, r.collection, query, params, "list donations")
}

func (r *donationRepository) MarkRefunded(ctx context.Context, id primitive.ObjectID, refundID string, at time.Time) error {
	return updateOne(ctx, r.collection,
		bson.M{"_id": id, "payment_status": models.PaymentStatusCompleted},
		bson.M{"$set": bson.M{
			"payment_status": models.PaymentStatusRefunded,
			"refund_id":      refundID,
			"refunded_at":    at,
			"updated_at":     at,
		}},
		"mark donation refunded",
	)
}
