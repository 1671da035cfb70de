package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"promptifyr/internal/dto"
	"promptifyr/internal/repository"
	"promptifyr/internal/service"
)

// ContextUserIDKey is where RequireAuth stores the authenticated user's
// ID in the gin context.
const ContextUserIDKey = "userID"

// RequireAuth rejects requests without a valid bearer token and stamps
// the user's last-active time on every authenticated request.
func RequireAuth(authSvc service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := authSvc.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid or expired token"})
			return
		}
		if _, err := userRepo.FindByID(userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid or expired token"})
			return
		}

		if err := userRepo.TouchLastActive(userID); err != nil {
			log.Warn().Err(err).Uint("userID", userID).Msg("Failed to update last active timestamp")
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user's ID from the gin context.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
