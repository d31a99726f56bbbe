package interfaces

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRepository interface {
	// Create returns ErrDuplicateKey when the payment id was already recorded.
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Donation, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Donation, int64, error)
	List(ctx context.Context, filter models.DonationFilter, params *utils.PaginationParams) ([]*models.Donation, int64, error)

	// MarkRefunded moves a completed donation to refunded; ErrNoMatch otherwise.
	MarkRefunded(ctx context.Context, id primitive.ObjectID, refundID string, at time.Time) error
}
