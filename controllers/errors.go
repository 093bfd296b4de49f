package controllers

import (
	"errors"
	"net/http"

	"github.com/K-Thour/PointsServer/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindMalformed, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"msg": ...}. Internal failures are logged with
// their cause and answered with a generic message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	msg := err.Error()
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	c.JSON(statusFor(kind), gin.H{"msg": msg})
}
