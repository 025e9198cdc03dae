package handlers

import (
	"net/http"
	"strings"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/featuringmyself/ledgy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves money summaries over projects, payments, milestones and transactions.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)
	rg.GET("/reports/:kind/summary", h.summary)
}

// summary godoc
// @Summary Money summary
// @Description Sums the caller's records of one kind in a single currency. Live mode re-prices at the report date, snapshot mode uses amounts frozen when each record was created.
// @Tags reports
// @Produce  json
// @Param   kind path string true "projects, payments, milestones or transactions"
// @Param   currency query string false "Target currency, defaults to the caller's currency"
// @Param   mode query string false "live or snapshot" default(live)
// @Param   date query string false "Report day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid kind, mode, currency or date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Security BearerAuth
// @Router /reports/{kind}/summary [get]
func (h *reportingHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, ok := domain.ParseRecordKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of projects, payments, milestones, transactions"})
		return
	}

	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseDateParam(q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mode := portssvc.ReportMode(strings.ToLower(q.Mode))
	agg, err := h.reportingService.Summary(c.Request.Context(), userID, kind, q.Currency, mode, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(kind, string(mode), agg))
}
