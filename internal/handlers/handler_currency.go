package handlers

import (
	"log/slog"
	"net/http"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/featuringmyself/ledgy/internal/utils"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles the currency catalog and the caller's preferred currency.
type currencyHandler struct {
	preferenceService portssvc.CurrencyPreferenceSvcFacade
	analytics         *utils.PosthogClientWrapper
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(ps portssvc.CurrencyPreferenceSvcFacade, analytics *utils.PosthogClientWrapper) *currencyHandler {
	return &currencyHandler{
		preferenceService: ps,
		analytics:         analytics,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, preferenceService portssvc.CurrencyPreferenceSvcFacade, analytics *utils.PosthogClientWrapper) {
	h := newCurrencyHandler(preferenceService, analytics)

	rg.GET("/currencies", h.listCurrencies)

	userCurrency := rg.Group("/user/currency")
	{
		userCurrency.GET("", h.getUserCurrency)
		userCurrency.POST("", h.setUserCurrency)
	}
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Retrieves the static catalog of currencies the application supports
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies := h.preferenceService.ListSupportedCurrencies(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getUserCurrency godoc
// @Summary Get the caller's currency
// @Description Returns the caller's display currency, creating the default preference on first access
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.UserCurrencyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to fetch user currency"
// @Security BearerAuth
// @Router /user/currency [get]
func (h *currencyHandler) getUserCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	code, err := h.preferenceService.GetPreferredCurrency(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to fetch user currency")
		return
	}
	c.JSON(http.StatusOK, dto.UserCurrencyResponse{DefaultCurrency: code, Symbol: domain.CurrencySymbol(code)})
}

// setUserCurrency godoc
// @Summary Set the caller's currency
// @Description Changes the caller's display currency. Only catalog currencies are accepted.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   request body dto.SetUserCurrencyRequest true "New default currency"
// @Success 200 {object} dto.UserCurrencyResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update user currency"
// @Security BearerAuth
// @Router /user/currency [post]
func (h *currencyHandler) setUserCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetUserCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetUserCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency code"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pref, err := h.preferenceService.SetPreferredCurrency(c.Request.Context(), userID, req.DefaultCurrency)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update user currency")
		return
	}

	logger.Info("User currency updated", slog.String("currency", pref.DefaultCurrencyCode))
	middleware.TrackEvent(c, h.analytics, "currency_preference_changed", map[string]any{
		"currency": pref.DefaultCurrencyCode,
	})
	c.JSON(http.StatusOK, dto.UserCurrencyResponse{
		DefaultCurrency: pref.DefaultCurrencyCode,
		Symbol:          domain.CurrencySymbol(pref.DefaultCurrencyCode),
	})
}
