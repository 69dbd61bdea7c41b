package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "nature-widget.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps an error to its HTTP shape. Non-AppError values are treated as
// internal errors and their detail is not echoed to the caller.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if e, ok := err.(*domainerrors.AppError); ok {
		appErr = e
	} else {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	})
}

// WidgetDenied sends the single denial shape of the widget path. Every
// failed authorization looks the same from outside regardless of which
// check failed; the true reason goes to logs and metrics only.
func WidgetDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    domainerrors.CodeCORSBlocked,
		"message": "request not authorized",
		"error":   "request not authorized",
	})
}
