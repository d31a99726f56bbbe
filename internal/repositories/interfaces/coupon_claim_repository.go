package interfaces

import (
	"context"

	"carefoundation/internal/models"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponClaimRepository interface {
	// Create returns ErrDuplicateKey when the coupon already has a claim.
	Create(ctx context.Context, claim *models.CouponClaim) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.CouponClaim, error)
	GetByCouponID(ctx context.Context, couponID primitive.ObjectID) (*models.CouponClaim, error)
	List(ctx context.Context, filter models.ClaimFilter, params *utils.PaginationParams) ([]*models.CouponClaim, int64, error)

	// Transition applies t only if the claim is still in t.From and returns the updated claim.
	// ErrNoMatch when the claim is missing or in another status.
	Transition(ctx context.Context, id primitive.ObjectID, t models.ClaimTransition) (*models.CouponClaim, error)
}
