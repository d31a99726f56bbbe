package interfaces

import (
	"context"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, filter models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error)

	// IncrementUsage consumes one use if the coupon is active, inside its validity window
	// and under its usage limit; ErrNoMatch otherwise.
	IncrementUsage(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error)
}
