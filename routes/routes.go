package routes

import (
	"net/http"

	"github.com/K-Thour/PointsServer/config"
	"github.com/K-Thour/PointsServer/controllers"
	"github.com/K-Thour/PointsServer/metrics"
	"github.com/K-Thour/PointsServer/middlewares"
	"github.com/K-Thour/PointsServer/services"
	"github.com/K-Thour/PointsServer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	Tokens *utils.TokenService
	Auth   *services.AuthService
	Points *services.RecordService
	Hub    *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			d.Log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error"})
		}),
		middlewares.RequestLogger(d.Log),
		middlewares.Metrics(),
		middlewares.CORS(d.Config.CORSOrigins),
	)

	health := controllers.NewHealthController(d.DB)
	r.GET("/", health.Root)
	r.GET("/healthz", health.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public auth routes
	authCtl := controllers.NewAuthController(d.Auth, d.Log)
	auth := r.Group("/api/auth")
	if d.Config.AuthRateLimit > 0 {
		auth.Use(middlewares.NewRateLimiter(d.Config.AuthRateLimit, d.Config.AuthRateBurst).Handler())
	}
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	// Protected points routes
	pointsCtl := controllers.NewPointsController(d.Points, d.Log)
	rtCtl := controllers.NewRealtimeController(d.Hub, d.Log)
	points := r.Group("/api/points")
	points.Use(middlewares.AuthMiddleware(d.Tokens))
	{
		points.POST("", pointsCtl.Submit)
		points.GET("", pointsCtl.History)
		points.GET("/today", pointsCtl.Today)
		points.GET("/by-date", pointsCtl.ByDate)
		points.GET("/overall", pointsCtl.Overall)
		points.GET("/ws", rtCtl.RecordsWS)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not Found"})
	})

	return r
}
