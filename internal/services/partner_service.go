package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate form_data keys for the partner photo, in priority order. The first is a
// single image, the rest are image arrays whose first element is used.
var photoFallbackKeys = []string{"banner", "clinicPhotos", "labImages", "hospitalImages", "pharmacyImages", "restaurantImages"}

type PartnerService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, request *validators.PartnerCreateRequest) (*models.Partner, error)
	GetMine(ctx context.Context, ownerID primitive.ObjectID) (*models.Partner, error)
	Get(ctx context.Context, caller *Caller, id primitive.ObjectID) (*models.Partner, error)
	List(ctx context.Context, caller *Caller, filter models.PartnerFilter, params *utils.PaginationParams) ([]*models.Partner, int64, error)
	UpdateStatus(ctx context.Context, id, adminID primitive.ObjectID, status models.PartnerStatus) (*models.Partner, error)
	UploadPhoto(ctx context.Context, caller Caller, id primitive.ObjectID, upload *PhotoUpload) (*models.Partner, error)
}

type PhotoUpload struct {
	Filename string
	Data     []byte
}

type partnerService struct {
	partnerRepo  interfaces.PartnerRepository
	userRepo     interfaces.UserRepository
	storage      storage.Provider
	maxImageSize int64
	audit        *logger.AuditLogger
	logger       *logger.Logger
}

// NewPartnerService accepts a nil storage provider; photo uploads then fail with a
// dependency error while everything else keeps working.
func NewPartnerService(
	partnerRepo interfaces.PartnerRepository,
	userRepo interfaces.UserRepository,
	store storage.Provider,
	maxImageSize int64,
	log *logger.Logger,
) PartnerService {
	if maxImageSize <= 0 {
		maxImageSize = utils.MaxImageSize
	}
	return &partnerService{
		partnerRepo:  partnerRepo,
		userRepo:     userRepo,
		storage:      store,
		maxImageSize: maxImageSize,
		audit:        logger.NewAuditLogger(log),
		logger:       log,
	}
}

func (s *partnerService) Create(ctx context.Context, ownerID primitive.ObjectID, request *validators.PartnerCreateRequest) (*models.Partner, error) {
	if err := validators.ValidatePartnerCreate(request).AppError(); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}

	photo, formData := prepareIntakeForm(request.FormData, s.maxImageSize)

	now := time.Now()
	partner := &models.Partner{
		Name:      request.Name,
		Type:      models.PartnerType(strings.ToLower(request.Type)),
		Status:    models.PartnerStatusPending,
		Email:     utils.NormalizeEmail(request.Email),
		Phone:     request.Phone,
		Address:   request.Address,
		City:      request.City,
		Photo:     photo,
		FormData:  formData,
		CreatedBy: owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return nil, utils.NewConflictError("PARTNER_EXISTS", "Partner form already submitted for this account")
		}
		return nil, utils.NewInternalError("failed to create partner", err)
	}

	// Submitting the intake form is the KYC step for partner accounts.
	if owner.Role == models.UserRolePartner {
		if err := s.userRepo.SetPartnerKYCCompleted(ctx, owner.ID, true); err != nil {
			s.logger.WithUserID(owner.ID).WithError(err).Warn("Failed to mark partner KYC completed")
		}
	}

	s.logger.WithUserID(owner.ID).WithField("partner_id", partner.ID.Hex()).Info("Partner request submitted")
	return partner, nil
}

func (s *partnerService) GetMine(ctx context.Context, ownerID primitive.ObjectID) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("partner")
		}
		return nil, utils.NewInternalError("failed to load partner", err)
	}
	return partner, nil
}

func (s *partnerService) Get(ctx context.Context, caller *Caller, id primitive.ObjectID) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("partner")
		}
		return nil, utils.NewInternalError("failed to load partner", err)
	}

	if caller != nil && (caller.IsAdmin() || caller.ID == partner.CreatedBy) {
		return partner, nil
	}
	if !partner.Status.Operational() {
		return nil, utils.NewForbiddenError("PARTNER_UNAVAILABLE", "Partner is not available")
	}
	return partner, nil
}

// List shows every partner to admins; everyone else only sees approved partners.
func (s *partnerService) List(ctx context.Context, caller *Caller, filter models.PartnerFilter, params *utils.PaginationParams) ([]*models.Partner, int64, error) {
	if caller == nil || !caller.IsAdmin() {
		filter.Status = models.PartnerStatusApproved
	}

	partners, total, err := s.partnerRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("failed to list partners", err)
	}
	return partners, total, nil
}

func (s *partnerService) UpdateStatus(ctx context.Context, id, adminID primitive.ObjectID, status models.PartnerStatus) (*models.Partner, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"status": "Status must be one of pending, approved, rejected, active",
		})
	}

	partner, err := s.partnerRepo.UpdateStatus(ctx, id, status, adminID, time.Now())
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("partner")
		}
		return nil, utils.NewInternalError("failed to update partner status", err)
	}

	s.audit.LogAction("partner_status", "partner", adminID, partner.ID, map[string]interface{}{"status": status})

	switch {
	case status.Operational():
		s.syncOwnerKYC(ctx, partner, true)
	case status == models.PartnerStatusRejected:
		s.syncOwnerKYC(ctx, partner, false)
	}

	return partner, nil
}

func (s *partnerService) syncOwnerKYC(ctx context.Context, partner *models.Partner, completed bool) {
	if partner.CreatedBy.IsZero() {
		return
	}
	if err := s.userRepo.SetPartnerKYCCompleted(ctx, partner.CreatedBy, completed); err != nil {
		s.logger.WithUserID(partner.CreatedBy).WithError(err).Warn("Failed to sync partner KYC flag")
	}
}

func (s *partnerService) UploadPhoto(ctx context.Context, caller Caller, id primitive.ObjectID, upload *PhotoUpload) (*models.Partner, error) {
	if s.storage == nil {
		return nil, utils.NewDependencyError("file storage is not configured", nil)
	}
	if upload == nil || len(upload.Data) == 0 {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"photo": "Photo is required"})
	}
	if !utils.IsImageFile(upload.Filename) {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"photo": "Photo must be a jpg or png image"})
	}
	if int64(len(upload.Data)) > s.maxImageSize {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"photo": fmt.Sprintf("Photo must be at most %d bytes", s.maxImageSize),
		})
	}

	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("partner")
		}
		return nil, utils.NewInternalError("failed to load partner", err)
	}
	if !caller.IsAdmin() && caller.ID != partner.CreatedBy {
		return nil, utils.NewForbiddenError("NOT_PARTNER_OWNER", "You can only update your own partner profile")
	}

	thumb, _, err := utils.MakeThumbnail(upload.Data, utils.ThumbnailMaxSize)
	if err != nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"photo": "Photo could not be decoded"})
	}

	prefix := path.Join("partners", partner.ID.Hex())
	photo, err := s.put(ctx, utils.StorageKey(prefix, upload.Filename), upload.Filename, upload.Data)
	if err != nil {
		return nil, err
	}
	thumbnail, err := s.put(ctx, utils.StorageKey(path.Join(prefix, "thumbnails"), upload.Filename), upload.Filename, thumb)
	if err != nil {
		return nil, err
	}

	if err := s.partnerRepo.UpdatePhoto(ctx, partner.ID, photo.URL, thumbnail.URL); err != nil {
		return nil, utils.NewInternalError("failed to save partner photo", err)
	}

	partner.Photo = photo.URL
	partner.Thumbnail = thumbnail.URL
	return partner, nil
}

func (s *partnerService) put(ctx context.Context, key, filename string, data []byte) (*storage.UploadResponse, error) {
	resp, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  utils.GetContentType(filename),
		Size:         int64(len(data)),
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		return nil, utils.NewDependencyError("failed to upload photo", err)
	}
	return resp, nil
}

// prepareIntakeForm picks the partner photo from the form's image fields and returns a
// copy of the form safe to persist: the chosen banner is not stored twice and, when the
// payload is oversized, every image field is dropped and _imagesTruncated is set.
func prepareIntakeForm(form map[string]interface{}, limit int64) (string, map[string]interface{}) {
	if form == nil {
		return "", nil
	}

	photo := pickPhoto(form)

	stored := make(map[string]interface{}, len(form))
	for k, v := range form {
		stored[k] = v
	}
	if banner, ok := stored["banner"].(string); ok && banner == photo {
		delete(stored, "banner")
	}

	encoded, err := json.Marshal(stored)
	if err != nil || int64(len(photo)+len(encoded)) > limit {
		for _, key := range photoFallbackKeys {
			delete(stored, key)
		}
		stored["_imagesTruncated"] = true
	}

	return photo, stored
}

func pickPhoto(form map[string]interface{}) string {
	for _, key := range photoFallbackKeys {
		switch v := form[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []interface{}:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && s != "" {
					return s
				}
			}
		case []string:
			if len(v) > 0 && v[0] != "" {
				return v[0]
			}
		}
	}
	return ""
}
