package interfaces

import (
	"context"
	"time"

	"carefoundation/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationCouponRepository interface {
	// Create returns ErrDuplicateKey on a code collision.
	Create(ctx context.Context, coupon *models.DonationCoupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.DonationCoupon, error)
	GetByCode(ctx context.Context, code string) (*models.DonationCoupon, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.DonationCoupon, error)

	// MarkUsed flips active to used only while the coupon is unexpired at `at`; ErrNoMatch otherwise.
	MarkUsed(ctx context.Context, id, redeemedBy primitive.ObjectID, at time.Time) error
	// MarkExpired flips an overdue active coupon to expired and reports whether it wrote.
	MarkExpired(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error)
}
