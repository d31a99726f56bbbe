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
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	userRepo      interfaces.UserRepository
	notifications NotificationService
	effects       *EffectRunner
	cfg           AuthConfig
	logger        *logger.Logger
}

// AuthResponse carries tokens only for approved accounts; pending accounts get the user alone.
type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens,omitempty"`
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	notifications NotificationService,
	effects *EffectRunner,
	cfg AuthConfig,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		notifications: notifications,
		effects:       effects,
		cfg:           cfg,
		logger:        logger,
	}
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	if err := validators.ValidateRegister(request).AppError(); err != nil {
		return nil, err
	}

	role := models.UserRole(request.Role)
	if role == "" {
		role = models.UserRoleDonor
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		Name:         request.Name,
		Email:        utils.NormalizeEmail(request.Email),
		MobileNumber: request.MobileNumber,
		Password:     string(hashedPassword),
		Role:         role,
		IsApproved:   role.AutoApproved(),
		IsActive:     true,
		BusinessName: request.BusinessName,
		City:         request.City,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, utils.NewConflictError("EMAIL_TAKEN", "User already exists with this email")
		}
		return nil, utils.NewInternalError("failed to create user", err)
	}

	s.logger.WithUserID(user.ID).WithField("role", user.Role).Info("User registered")

	if !user.IsApproved {
		s.effects.Run(ctx, Effect{Name: "account_pending_email", Run: func(ctx context.Context) error {
			return s.notifications.AccountPending(ctx, user)
		}})
		return &AuthResponse{User: user}, nil
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	if err := validators.ValidateLogin(request).AppError(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)) != nil {
		s.logger.WithField("email", utils.MaskEmail(user.Email)).Warn("Login attempt with invalid credentials")
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, utils.NewForbiddenError("ACCOUNT_DISABLED", "Your account has been disabled")
	}

	if !user.IsApproved && user.Role != models.UserRoleAdmin {
		s.effects.Run(ctx, Effect{Name: "account_pending_email", Run: func(ctx context.Context) error {
			return s.notifications.AccountPending(ctx, user)
		}})
		return nil, utils.NewForbiddenError(CodeAccountPending,
			"Your account is pending admin approval. Please wait for approval before logging in.")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.WithUserID(user.ID).WithError(err).Warn("Failed to record last login")
	}

	return s.issue(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidToken)
	}

	// Re-read the user so revoked approval or role changes take effect on refresh.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidToken)
	}
	if !user.IsActive || (!user.IsApproved && user.Role != models.UserRoleAdmin) {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidToken)
	}

	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResponse, error) {
	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.cfg.JWTSecret, s.cfg.AccessTTL, s.cfg.RefreshTTL)
	if err != nil {
		return nil, utils.NewInternalError("failed to generate tokens", err)
	}
	return &AuthResponse{User: user, Tokens: tokens}, nil
}
