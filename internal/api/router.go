package api

import (
	v1 "github.com/flexprice/ordertax/internal/api/v1"
	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/rest/middleware"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Tax       *v1.TaxHandler
	TaxConfig *v1.TaxConfigHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, cfg)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, cfg *config.Configuration) {
	organization := router.Group("/organizations/:organization_id")
	organization.Use(
		middleware.OrganizationMiddleware,
		middleware.RateLimitMiddleware(cfg),
		middleware.PyroscopeMiddleware(cfg),
	)

	tax := organization.Group("/tax")
	{
		tax.POST("/calculate", handlers.Tax.CalculateTax)
		tax.GET("/carts/:cart_id", handlers.Tax.GetCartTotals)
		tax.DELETE("/carts/:cart_id", handlers.Tax.ReleaseCart)
	}

	taxConfigs := organization.Group("/tax-configurations")
	{
		taxConfigs.POST("", handlers.TaxConfig.Create)
		taxConfigs.GET("", handlers.TaxConfig.List)
		taxConfigs.GET("/preview", handlers.TaxConfig.Preview)
		taxConfigs.GET("/:id", handlers.TaxConfig.Get)
		taxConfigs.PUT("/:id", handlers.TaxConfig.Update)
		taxConfigs.DELETE("/:id", handlers.TaxConfig.Delete)
	}
}
