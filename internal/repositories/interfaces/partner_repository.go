package interfaces

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartnerRepository interface {
	// Create returns ErrDuplicateKey when the owner already submitted a partner form.
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Partner, error)
	GetByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Partner, error)
	List(ctx context.Context, filter models.PartnerFilter, params *utils.PaginationParams) ([]*models.Partner, int64, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PartnerStatus, reviewer primitive.ObjectID, at time.Time) (*models.Partner, error)
	UpdatePhoto(ctx context.Context, id primitive.ObjectID, photo, thumbnail string) error
}
