package middlewares

import (
	"net/http"
	"strings"

	"github.com/K-Thour/PointsServer/services"
	"github.com/K-Thour/PointsServer/utils"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user's id.
const UserIDKey = "userID"

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// token's user id under UserIDKey.
func AuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !strings.HasPrefix(authHeader, "Bearer ") || tokenString == "" {
			reject(c, services.Unauthenticated(services.MsgNoToken))
			return
		}

		userID, err := tokens.ParseJWT(tokenString)
		if err != nil {
			reject(c, services.Unauthenticated(services.MsgInvalidToken))
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// reject answers 401 and records the failure for the request logger.
func reject(c *gin.Context, err *services.Error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": err.Msg})
}

// UserID returns the id set by AuthMiddleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
