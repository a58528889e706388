package router

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tipfinity/config"
	"tipfinity/internal/handler"
	"tipfinity/internal/middleware"
	"tipfinity/internal/repository"
	"tipfinity/internal/service"
	"tipfinity/internal/ws"
	"tipfinity/pkg/cloudinary"
)

// Setup wires repositories, services and handlers onto a gin engine.
// cloud may be nil; avatar upload is then disabled.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	creatorRepo := repository.NewCreatorRepository(db)
	tipRepo := repository.NewTipRepository(db)

	alertHub := ws.NewHub()

	// Services
	tipSvc := service.NewTipService(tipRepo, creatorRepo, cfg.Tips)
	walletSvc := service.NewWalletService(creatorRepo)

	// Handlers
	creatorHandler := handler.NewCreatorHandler(creatorRepo, tipRepo)
	tipHandler := handler.NewTipHandler(tipSvc, alertHub)
	walletHandler := handler.NewWalletHandler(walletSvc)
	webhookHandler := handler.NewWebhookHandler(tipSvc, creatorRepo, alertHub, cfg.Webhook.Secret)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/creators", creatorHandler.Create)
	r.GET("/creators", creatorHandler.List)
	r.GET("/creators/:id", creatorHandler.Get)
	r.PUT("/creators/:id", creatorHandler.Update)
	r.DELETE("/creators/:id", creatorHandler.Delete)
	r.GET("/username/:username/available", creatorHandler.CheckUsername)

	r.POST("/wallet/link", walletHandler.Link)

	r.POST("/tips", tipHandler.Create)
	r.GET("/tips/creator/:creator_id", tipHandler.ListForCreator)
	r.GET("/tips/recent", tipHandler.Recent)

	r.POST("/webhooks/tip", webhookHandler.HandleTip)

	r.GET("/ws/alerts", ws.UpgradeAlertsWS(alertHub))

	if cloud != nil {
		uploadHandler := handler.NewUploadHandler(cloud, creatorRepo)
		r.POST("/creators/:id/avatar", uploadHandler.UploadAvatar)
	} else {
		log.Printf("[Upload] avatar uploads disabled: set CLOUDINARY_* to enable")
	}

	return r
}
