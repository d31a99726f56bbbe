package services

import (
	"carefoundation/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller identifies the authenticated user behind a request.
type Caller struct {
	ID   primitive.ObjectID
	Role models.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}
