package middleware

import (
	"context"
	"net/http"
	"strings"

	"carefoundation/internal/utils"
	"carefoundation/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextEmail    = "user_email"
)

// AuthRequired validates the bearer access token and sets the user context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, secret)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Valid bearer token required")
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid token is present and lets
// anonymous requests through. An invalid token is treated as anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, secret); ok {
			setUser(c, claims)
		}
		c.Next()
	}
}

// RoleRequired must run after AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}
		if !allowed[role] {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Insufficient role for this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return RoleRequired("admin")
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// bearerClaims reads the Authorization header. Browsers cannot set headers on a
// websocket handshake, so upgrades may pass the token as ?token= instead.
func bearerClaims(c *gin.Context, secret string) (*utils.JWTClaims, bool) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" && c.IsWebsocket() {
		token = c.Query("token")
	} else if token == header {
		return nil, false
	}
	if token == "" {
		return nil, false
	}

	claims, err := utils.ValidateToken(token, secret)
	if err != nil || claims.TokenType != utils.TokenTypeAccess || claims.UserID.IsZero() {
		return nil, false
	}
	return claims, true
}

func setUser(c *gin.Context, claims *utils.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, claims.Role)
	c.Set(ContextEmail, claims.Email)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID))
}
