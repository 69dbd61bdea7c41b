package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/interfaces/http/response"
	"nature-widget.backend/internal/usecases"
	"nature-widget.backend/pkg/logger"
	"nature-widget.backend/pkg/metrics"
)

const (
	// ApiKeyQueryParam is the query parameter carrying the widget API key
	ApiKeyQueryParam = "apikey"
	// ApiKeyHeader is the header alternative for the widget API key
	ApiKeyHeader = "X-Api-Key"
	// WidgetAuthResultKey is the context key for the authorization result
	WidgetAuthResultKey = "widgetAuthResult"
)

// WidgetAuthMiddleware runs the per-request authorization decision for the
// embeddable widget. Every denial is surfaced identically as 403 CORS_BLOCKED;
// the distinction between an invalid key, a missing origin and an
// unauthorized domain exists only in logs and metrics, so a probing caller
// learns nothing from the response shape.
func WidgetAuthMiddleware(widgetAuth *usecases.WidgetAuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(metrics.WidgetAuthDuration)
		defer timer.ObserveDuration()

		origin := c.GetHeader("Origin")
		secret := c.Query(ApiKeyQueryParam)
		if secret == "" {
			secret = c.GetHeader(ApiKeyHeader)
		}
		originHost := usecases.OriginHostFromHeaders(origin, c.GetHeader("Referer"))

		// The preflight goes through the exact same decision as the real
		// request; an unauthorized origin never sees its origin reflected.
		result, err := widgetAuth.Authorize(c.Request.Context(), secret, originHost)
		if err != nil {
			label := denialLabel(err)
			metrics.WidgetAuthDecisions.WithLabelValues(label).Inc()
			logger.Warn(c.Request.Context(), "widget request denied",
				zap.String("reason", label),
				zap.String("origin_host", originHost),
				zap.String("client_ip", c.ClientIP()),
			)
			response.WidgetDenied(c)
			c.Abort()
			return
		}

		metrics.WidgetAuthDecisions.WithLabelValues(metrics.ResultAllowed).Inc()
		writeCORSHeaders(c, origin)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Set(WidgetAuthResultKey, result)
		c.Next()
	}
}

// GetWidgetAuthResult gets the authorization result from context
func GetWidgetAuthResult(c *gin.Context) (*usecases.WidgetAuthResult, bool) {
	v, exists := c.Get(WidgetAuthResultKey)
	if !exists {
		return nil, false
	}
	return v.(*usecases.WidgetAuthResult), true
}

// writeCORSHeaders reflects the requesting origin. Never a wildcard: the
// allowed origin set is per-account and the decision was already made.
func writeCORSHeaders(c *gin.Context, origin string) {
	if origin != "" && origin != "null" {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
	}
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "X-Api-Key, Content-Type")
	c.Header("Access-Control-Max-Age", "600")
}

func denialLabel(err error) string {
	appErr, ok := err.(*domainerrors.AppError)
	if !ok {
		return metrics.ResultStoreError
	}
	switch appErr.Code {
	case domainerrors.CodeInvalidKey:
		return metrics.ResultInvalidKey
	case domainerrors.CodeMissingOrigin:
		return metrics.ResultMissingOrigin
	case domainerrors.CodeDomainNotAuthorized:
		return metrics.ResultDomainNotAuthorized
	default:
		return metrics.ResultStoreError
	}
}
