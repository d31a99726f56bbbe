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

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection(database.CollectionUsers),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return wrapError("create user", err)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"_id": id}, "get user")
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"email": email}, "get user by email")
}

func (r *userRepository) List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsApproved != nil {
		query["is_approved"] = *filter.IsApproved
	}
	if params != nil && params.Search != "" {
		for k, v := range params.GetSearchFilter([]string{"name", "email", "business_name"}) {
			query[k] = v
		}
	}
	return findPage[models.User](ctx, r.collection, query, params, "list users")
}

func (r *userRepository) SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) error {
	return setByID(ctx, r.collection, id, bson.M{"is_approved": approved, "updated_at": time.Now()}, "approve user")
}

func (r *userRepository) SetPartnerKYCCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	return setByID(ctx, r.collection, id, bson.M{"partner_kyc_completed": completed, "updated_at": time.Now()}, "update partner kyc")
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return setByID(ctx, r.collection, id, bson.M{"last_login_at": at}, "update last login")
}
