package handlers

import (
	"carefoundation/internal/middleware"
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireCaller writes a 401 and returns false when the request is anonymous.
func requireCaller(c *gin.Context) (services.Caller, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return services.Caller{}, false
	}
	return services.Caller{ID: userID, Role: models.UserRole(middleware.UserRole(c))}, true
}

// optionalCaller returns nil for anonymous requests.
func optionalCaller(c *gin.Context) *services.Caller {
	userID, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &services.Caller{ID: userID, Role: models.UserRole(middleware.UserRole(c))}
}

func paramID(c *gin.Context, name, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+resource+" ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func bindJSON(c *gin.Context, request interface{}) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return false
	}
	return true
}

func listMeta(params *utils.PaginationParams, total int64, count int) *utils.Meta {
	return &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      count,
	}
}
