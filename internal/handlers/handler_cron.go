package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cronHandler serves endpoints hit by the external scheduler.
type cronHandler struct {
	refreshService portssvc.RateRefreshSvc
	baseCurrencies []string
}

func registerCronRoutes(rg *gin.RouterGroup, refreshService portssvc.RateRefreshSvc, baseCurrencies []string) {
	h := &cronHandler{refreshService: refreshService, baseCurrencies: baseCurrencies}
	rg.GET("/exchange-rates", h.refreshExchangeRates)
}

// refreshExchangeRates godoc
// @Summary Daily exchange rate update
// @Description Refreshes every configured base currency. Authenticated with the X-Cron-Key header.
// @Tags internal
// @Produce  json
// @Param   X-Cron-Key header string true "Scheduler key"
// @Success 200 {object} dto.RefreshRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update exchange rates"
// @Router /internal/cron/exchange-rates [get]
func (h *cronHandler) refreshExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Starting daily exchange rate update", slog.Any("base_currencies", h.baseCurrencies))

	summary, err := h.refreshService.RefreshAll(c.Request.Context(), h.baseCurrencies)
	if err != nil {
		logger.Error("Exchange rate cron job failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update exchange rates",
			"details": err.Error(),
		})
		return
	}

	logger.Info("Exchange rate update completed",
		slog.Int("successful", summary.SuccessCount),
		slog.Int("total", len(summary.Results)),
		slog.Bool("skipped", summary.Skipped),
	)
	c.JSON(http.StatusOK, dto.ToRefreshRatesResponse(summary))
}
