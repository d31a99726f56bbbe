package interfaces

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Create returns ErrDuplicateKey when the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)

	SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) error
	SetPartnerKYCCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}
