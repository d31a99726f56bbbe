package services

import (
	"context"
	"errors"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
	Approve(ctx context.Context, userID, adminID primitive.ObjectID) (*models.User, error)
}

type userService struct {
	userRepo interfaces.UserRepository
	audit    *logger.AuditLogger
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		audit:    logger.NewAuditLogger(log),
		logger:   log,
	}
}

func (s *userService) List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list users", err)
	}
	return users, total, nil
}

func (s *userService) Approve(ctx context.Context, userID, adminID primitive.ObjectID) (*models.User, error) {
	if err := s.userRepo.SetApproved(ctx, userID, true); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, utils.NewInternalError("failed to approve user", err)
	}

	s.audit.LogAction("approve", "user", adminID, userID, nil)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("failed to load user", err)
	}
	return user, nil
}
