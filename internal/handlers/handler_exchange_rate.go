package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/featuringmyself/ledgy/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// defaultRefreshBase is refreshed when a manual refresh names no currency.
const defaultRefreshBase = "USD"

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	refreshService      portssvc.RateRefreshSvc
	analytics           *utils.PosthogClientWrapper
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, rrs portssvc.RateRefreshSvc, analytics *utils.PosthogClientWrapper) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		refreshService:      rrs,
		analytics:           analytics,
	}
}

// exchangeRateGuards are the extra middlewares in front of the rate routes that write.
type exchangeRateGuards struct {
	// refresh limits manual provider refreshes.
	refresh gin.HandlerFunc
	// admin protects manual rate entry, which every tenant reads.
	admin gin.HandlerFunc
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade, rrs portssvc.RateRefreshSvc, analytics *utils.PosthogClientWrapper, guards exchangeRateGuards) {
	h := newExchangeRateHandler(ers, rrs, analytics)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.POST("", guards.admin, h.createExchangeRate)
		exchangeRates.GET("/resolve", h.resolveRate)
		exchangeRates.GET("/convert", h.convert)
		exchangeRates.POST("/snapshot", h.captureSnapshot)
		exchangeRates.POST("/refresh", guards.refresh, h.refreshRates)
	}
}

// createExchangeRate godoc
// @Summary Create or replace an exchange rate
// @Description Stores a manually entered rate for a currency pair and day. An existing rate for the same pair and day is replaced. Requires the operator key in X-Cron-Key.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Param   X-Cron-Key header string true "Operator key"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Operator key missing or wrong"
// @Failure 500 {object} map[string]string "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("date_effective", req.DateEffective),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	middleware.TrackEvent(c, h.analytics, "exchange_rate_entered", map[string]any{
		"from_currency": createdRate.FromCurrencyCode,
		"to_currency":   createdRate.ToCurrencyCode,
	})
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// listExchangeRates godoc
// @Summary List stored exchange rates
// @Description Lists stored rates, newest day first, optionally filtered by pair and day
// @Tags exchange rates
// @Produce  json
// @Param   from query string false "From currency code"
// @Param   to query string false "To currency code"
// @Param   date query string false "Only rates dated on or before (YYYY-MM-DD)"
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(50)
// @Success 200 {object} dto.ListExchangeRatesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list exchange rates"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListExchangeRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// resolveRate godoc
// @Summary Resolve an exchange rate
// @Description Returns the rate from one currency to another as of a day, with the lookup tier that produced it. Unknown pairs resolve to 1 with tier FALLBACK.
// @Tags exchange rates
// @Produce  json
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ResolveRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code or date"
// @Failure 500 {object} map[string]string "Failed to resolve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ResolveRateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}
	asOf, err := parseDateParam(q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("from_code", q.From), slog.String("to_code", q.To))
	resolved, err := h.exchangeRateService.ResolveRate(c.Request.Context(), q.From, q.To, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToResolveRateResponse(resolved))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount between currencies using the rate resolved for the day
// @Tags exchange rates
// @Produce  json
// @Param   amount query string true "Decimal amount"
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid amount, currency code or date"
// @Failure 500 {object} map[string]string "Failed to convert amount"
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dto.ConvertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(q.Amount))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}
	asOf, err := parseDateParam(q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	conversion, err := h.exchangeRateService.Convert(c.Request.Context(), amount, q.From, q.To, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dto.ToConvertResponse(conversion))
}

// captureSnapshot godoc
// @Summary Freeze a conversion for a money record
// @Description Converts an amount into a base currency as of a moment and returns the rate and base amount to store with the record, so later reports reproduce it exactly
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   request body dto.SnapshotRequest true "Amount, currency, base currency and optional moment"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 400 {object} map[string]string "Invalid amount or currency code"
// @Failure 500 {object} map[string]string "Failed to capture snapshot"
// @Security BearerAuth
// @Router /exchange-rates/snapshot [post]
func (h *exchangeRateHandler) captureSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	record := domain.MoneyRecord{Amount: req.Amount, CurrencyCode: req.CurrencyCode}
	snapshot, err := h.exchangeRateService.CaptureSnapshot(c.Request.Context(), record, req.BaseCurrencyCode, at)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to capture snapshot")
		return
	}
	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snapshot))
}

// refreshRates godoc
// @Summary Refresh exchange rates
// @Description Pulls today's provider rates for one base currency into the rate store
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   request body dto.RefreshRatesRequest false "Base currency, defaults to USD"
// @Success 200 {object} dto.RefreshRatesResponse
// @Failure 400 {object} map[string]string "Invalid base currency"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} dto.RefreshRatesResponse "Failed to update exchange rates"
// @Security BearerAuth
// @Router /exchange-rates/refresh [post]
func (h *exchangeRateHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRatesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	base := req.BaseCurrency
	if base == "" {
		base = defaultRefreshBase
	}

	result, err := h.refreshService.RefreshRates(c.Request.Context(), base)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update exchange rates")
		return
	}
	if !result.Success {
		c.JSON(http.StatusInternalServerError, dto.RefreshRatesResponse{
			Success: false,
			Message: "Failed to update exchange rates",
			Results: []dto.RefreshResultResponse{dto.ToRefreshResultResponse(*result)},
		})
		return
	}

	logger.Info("Exchange rates refreshed manually", slog.String("base_currency", result.BaseCurrencyCode), slog.Int("rates_stored", result.RatesStored))
	middleware.TrackEvent(c, h.analytics, "exchange_rates_refreshed", map[string]any{
		"base_currency": result.BaseCurrencyCode,
		"rates_stored":  result.RatesStored,
	})
	c.JSON(http.StatusOK, dto.RefreshRatesResponse{
		Success: true,
		Message: "Exchange rates updated successfully",
		Results: []dto.RefreshResultResponse{dto.ToRefreshResultResponse(*result)},
	})
}
