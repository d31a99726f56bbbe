package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"carefoundation/internal/models"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]primitive.ObjectID
}

func NewUserRepository() interfaces.UserRepository {
	return &userRepository{
		byID:    make(map[primitive.ObjectID]*models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("failed to create user: %w", interfaces.ErrDuplicateKey)
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = copyPtr(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyPtr(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) List(_ context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var search string
	if params != nil {
		search = strings.ToLower(params.Search)
	}
	docs := make([]*models.User, 0, len(r.byID))
	for _, user := range r.byID {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.IsApproved != nil && user.IsApproved != *filter.IsApproved {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.Name+" "+user.Email+" "+user.BusinessName), search) {
			continue
		}
		docs = append(docs, user)
	}
	out, total := page(docs, params, byCreatedAt(func(u *models.User) (time.Time, primitive.ObjectID) {
		return u.CreatedAt, u.ID
	}))
	return out, total, nil
}

func (r *userRepository) update(id primitive.ObjectID, apply func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	apply(user)
	return nil
}

func (r *userRepository) SetApproved(_ context.Context, id primitive.ObjectID, approved bool) error {
	return r.update(id, func(u *models.User) {
		u.IsApproved = approved
		u.UpdatedAt = time.Now()
	})
}

func (r *userRepository) SetPartnerKYCCompleted(_ context.Context, id primitive.ObjectID, completed bool) error {
	return r.update(id, func(u *models.User) {
		u.PartnerKYCCompleted = completed
		u.UpdatedAt = time.Now()
	})
}

func (r *userRepository) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	return r.update(id, func(u *models.User) {
		u.LastLoginAt = &at
	})
}
