package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/K-Thour/PointsServer/middlewares"
	"github.com/K-Thour/PointsServer/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PointsController struct {
	Svc *services.RecordService
	Log *zap.Logger
}

func NewPointsController(svc *services.RecordService, log *zap.Logger) *PointsController {
	return &PointsController{Svc: svc, Log: log}
}

func (h *PointsController) userID(c *gin.Context) (uint, bool) {
	id, ok := middlewares.UserID(c)
	if !ok {
		respondError(c, h.Log, services.Unauthenticated(services.MsgInvalidToken))
	}
	return id, ok
}

// POST /api/points?date=YYYY-MM-DD
func (h *PointsController) Submit(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	// an empty body is a submission without tasks
	var body services.SubmitInput
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": services.MsgInvalidBody})
		return
	}

	rec, err := h.Svc.Submit(c.Request.Context(), uid, body, c.Query("date"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// GET /api/points/today
func (h *PointsController) Today(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	rec, err := h.Svc.Today(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/points/by-date?date=YYYY-MM-DD
func (h *PointsController) ByDate(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	rec, err := h.Svc.ByDate(c.Request.Context(), uid, c.Query("date"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/points
func (h *PointsController) History(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	recs, err := h.Svc.History(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GET /api/points/overall
func (h *PointsController) Overall(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}

	out, err := h.Svc.MonthlySummary(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
