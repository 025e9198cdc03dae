package handlers

import (
	"fmt"

	"github.com/featuringmyself/ledgy/cmd/docs"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/featuringmyself/ledgy/internal/platform/config"
	"github.com/featuringmyself/ledgy/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) error {

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	refreshLimiter, err := middleware.NewMemoryLimiter(cfg.RatesRefreshLimit)
	if err != nil {
		return fmt.Errorf("invalid RATES_REFRESH_LIMIT %q: %w", cfg.RatesRefreshLimit, err)
	}

	setupAPIV1Routes(r, cfg, services, analytics, exchangeRateGuards{
		refresh: middleware.RateLimit(refreshLimiter),
		admin:   middleware.AdminKeyAuth(cfg.CronKeyHash),
	})

	cron := r.Group("/internal/cron", middleware.CronKeyAuth(cfg.CronKeyHash))
	registerCronRoutes(cron, services.RateRefresh, cfg.RatesBaseCurrencies)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
	rateGuards exchangeRateGuards,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerCurrencyRoutes(v1, service.CurrencyPreference, analytics)
	registerExchangeRateRoutes(v1, service.ExchangeRate, service.RateRefresh, analytics, rateGuards)
	registerReportingRoutes(v1, service.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
