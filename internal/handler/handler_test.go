package handler

import (
	"testing"
	"time"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/middleware"
	"github.com/ukai02/iitk-transport/internal/models"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	engine  *gin.Engine
	drivers *repository.DriverRepository
	status  *repository.StatusRepository
	cfg     *config.Config
}

// newFixture wires the full route table against an in-memory store, with
// photo uploads and the live board left out.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Driver{}, &models.DriverStatus{}, &models.Admin{}))

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"}
	cfg.Presence.StaleAfter = 45 * time.Minute
	cfg.SMS.CountryCode = "+91"

	driverRepo := repository.NewDriverRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	gatewaySvc := service.NewGatewayService(driverRepo, statusRepo, cfg.SMS.CountryCode, nil)

	smsHandler := NewSMSHandler(gatewaySvc)
	riderHandler := NewRiderHandler(statusRepo, cfg.Presence.StaleAfter)
	driverHandler := NewDriverHandler(driverRepo, statusRepo, nil, nil)
	adminHandler := NewAdminHandler(driverRepo, statusRepo, nil)
	authHandler := NewAuthHandler(cfg, adminRepo)

	r := gin.New()
	r.POST("/sms_webhook", smsHandler.Webhook)
	api := r.Group("/api")
	api.POST("/sms/webhook", smsHandler.Webhook)
	api.GET("/riders/drivers", riderHandler.ListOnline)
	api.POST("/drivers/register", driverHandler.Register)
	api.POST("/drivers/location", driverHandler.UpdateLocation)
	api.GET("/drivers/photo", driverHandler.GetPhoto)
	api.POST("/auth/login", authHandler.Login)
	admin := api.Group("/admin", middleware.AdminRequired(&cfg.JWT))
	admin.GET("/drivers", adminHandler.ListAll)
	admin.POST("/drivers/:id/online", adminHandler.ForceOnline)
	admin.POST("/drivers/:id/offline", adminHandler.ForceOffline)
	admin.DELETE("/drivers/:id", adminHandler.Delete)
	admin.PUT("/drivers/:id", adminHandler.Edit)

	return &fixture{db: db, engine: r, drivers: driverRepo, status: statusRepo, cfg: cfg}
}

func (f *fixture) seedDriver(t *testing.T, name, phone, vehicle, location string, at time.Time) *models.Driver {
	t.Helper()
	d := models.NewDriver(name, phone, vehicle, "")
	require.NoError(t, f.drivers.CreateWithStatus(d, location, at))
	return d
}
