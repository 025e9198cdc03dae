package middleware

import (
	"net/http"
	"strings"

	"github.com/featuringmyself/ledgy/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPaths are never reported to PostHog.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// routeEventName turns a gin route pattern into an event name, e.g.
// "/api/v1/reports/:kind/summary" -> "api_v1_reports_kind_summary".
// Unmatched requests have no route and yield "".
func routeEventName(fullPath string) string {
	name := strings.TrimPrefix(fullPath, "/")
	name = strings.ReplaceAll(name, ":", "")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ReplaceAll(name, "/", "_")
}

// PosthogMiddleware reports each successful tenant request as a PostHog event
// named after its route. Path parameters (the report kind) become properties.
func PosthogMiddleware(analytics *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !analytics.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		event := routeEventName(c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		TrackEvent(c, analytics, event, props)
	}
}

// TrackEvent sends a named domain event for the authenticated tenant. Requests
// without a tenant (cron, health) are not tracked.
func TrackEvent(c *gin.Context, analytics *utils.PosthogClientWrapper, event string, props map[string]any) {
	if !analytics.IsInitialized() {
		return
	}
	tenantID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	if props == nil {
		props = make(map[string]any, 2)
	}
	props["method"] = c.Request.Method
	props["path"] = c.Request.URL.Path
	analytics.Enqueue(tenantID, event, props)
}
