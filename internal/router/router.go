package router

import (
	"net/http"
	"time"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/handler"
	"github.com/ukai02/iitk-transport/internal/middleware"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/service"
	"github.com/ukai02/iitk-transport/internal/ws"
	"github.com/ukai02/iitk-transport/pkg/media"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, photos media.PhotoStore) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Repositories
	driverRepo := repository.NewDriverRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	boardHub := ws.NewBoardHub()

	// Services
	gatewaySvc := service.NewGatewayService(driverRepo, statusRepo, cfg.SMS.CountryCode, boardHub)

	// Handlers
	smsHandler := handler.NewSMSHandler(gatewaySvc)
	riderHandler := handler.NewRiderHandler(statusRepo, cfg.Presence.StaleAfter)
	driverHandler := handler.NewDriverHandler(driverRepo, statusRepo, photos, boardHub)
	adminHandler := handler.NewAdminHandler(driverRepo, statusRepo, boardHub)
	authHandler := handler.NewAuthHandler(cfg, adminRepo)

	adminMw := middleware.AdminRequired(&cfg.JWT)

	r.Static("/uploads", cfg.Server.UploadDir)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// Carrier gateways are often configured with a bare path, so the
	// webhook is reachable both inside and outside the /api group.
	r.POST("/sms_webhook", smsHandler.Webhook)

	api := r.Group("/api")
	{
		api.POST("/sms/webhook", smsHandler.Webhook)

		api.GET("/riders/drivers", riderHandler.ListOnline)

		api.POST("/drivers/register", driverHandler.Register)
		api.POST("/drivers/location", driverHandler.UpdateLocation)
		api.GET("/drivers/photo", driverHandler.GetPhoto)

		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("/admin")
		admin.Use(adminMw)
		{
			admin.GET("/drivers", adminHandler.ListAll)
			admin.POST("/drivers/:id/online", adminHandler.ForceOnline)
			admin.POST("/drivers/:id/offline", adminHandler.ForceOffline)
			admin.DELETE("/drivers/:id", adminHandler.Delete)
			admin.PUT("/drivers/:id", adminHandler.Edit)
		}
	}

	r.GET("/ws/board", ws.UpgradeBoardWS(boardHub, riderHandler.BoardSnapshot))

	return r
}
