package handlers

import (
	"carefoundation/internal/models"
	"carefoundation/internal/services"
	"carefoundation/internal/utils"
	"carefoundation/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.RegisterRequest
	if !bindJSON(c, &request) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message := "Registration successful"
	if response.Tokens == nil {
		message = "Registration successful. Your account is pending admin approval."
	}
	utils.CreatedResponse(c, message, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if !bindJSON(c, &request) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request validators.RefreshTokenRequest
	if !bindJSON(c, &request) {
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

// ListUsers supports ?role= and ?approved=true|false.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{Role: models.UserRole(c.Query("role"))}
	switch c.Query("approved") {
	case "true":
		approved := true
		filter.IsApproved = &approved
	case "false":
		approved := false
		filter.IsApproved = &approved
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Users retrieved successfully", users, listMeta(params, total, len(users)))
}

func (h *AuthHandler) ApproveUser(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Approve(c.Request.Context(), userID, caller.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "User approved successfully", user)
}
