package controllers

import (
	"net/http"

	"github.com/K-Thour/PointsServer/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	Svc *services.AuthService
	Log *zap.Logger
}

func NewAuthController(svc *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{Svc: svc, Log: log}
}

// POST /api/auth/register
func (h *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": services.MsgInvalidBody})
		return
	}

	out, err := h.Svc.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/auth/login
func (h *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": services.MsgInvalidBody})
		return
	}

	out, err := h.Svc.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
