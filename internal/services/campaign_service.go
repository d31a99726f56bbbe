package services

import (
	"context"
	"errors"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CampaignService interface {
	Create(ctx context.Context, adminID primitive.ObjectID, request *validators.CampaignCreateRequest) (*models.Campaign, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter, params *utils.PaginationParams) ([]*models.Campaign, int64, error)
}

type campaignService struct {
	campaignRepo interfaces.CampaignRepository
	logger       *logger.Logger
}

func NewCampaignService(campaignRepo interfaces.CampaignRepository, logger *logger.Logger) CampaignService {
	return &campaignService{campaignRepo: campaignRepo, logger: logger}
}

func (s *campaignService) Create(ctx context.Context, adminID primitive.ObjectID, request *validators.CampaignCreateRequest) (*models.Campaign, error) {
	if err := validators.ValidateCampaignCreate(request).AppError(); err != nil {
		return nil, err
	}

	now := time.Now()
	campaign := &models.Campaign{
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		GoalAmount:  request.GoalAmount,
		Status:      models.CampaignStatusActive,
		EndDate:     request.EndDate,
		CreatedBy:   adminID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, utils.NewInternalError("failed to create campaign", err)
	}

	s.logger.WithField("campaign_id", campaign.ID.Hex()).Info("Campaign created")
	return campaign, nil
}

func (s *campaignService) Get(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("campaign")
		}
		return nil, utils.NewInternalError("failed to load campaign", err)
	}
	return campaign, nil
}

func (s *campaignService) List(ctx context.Context, filter models.CampaignFilter, params *utils.PaginationParams) ([]*models.Campaign, int64, error) {
	campaigns, total, err := s.campaignRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list campaigns", err)
	}
	return campaigns, total, nil
}
