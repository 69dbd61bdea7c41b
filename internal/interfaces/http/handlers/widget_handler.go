package handlers

import (
	"bytes"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"nature-widget.backend/internal/interfaces/http/middleware"
)

const widgetHostPlaceholder = "%MATCHED_HOST%"

// defaultWidgetHTML is served when no widget asset is configured. It renders
// the embedded nature widget shell; the real asset bundle replaces it in
// deployed environments.
const defaultWidgetHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Nature Widget</title>
</head>
<body>
<div id="nature-widget-root" data-host="%MATCHED_HOST%"></div>
<script>window.__NATURE_WIDGET__ = { host: "%MATCHED_HOST%" };</script>
</body>
</html>
`

type WidgetHandler struct {
	asset []byte
}

// NewWidgetHandler loads the widget asset from assetPath, falling back to
// the embedded shell when the file is absent.
func NewWidgetHandler(assetPath string) *WidgetHandler {
	asset := []byte(defaultWidgetHTML)
	if assetPath != "" {
		if data, err := os.ReadFile(assetPath); err == nil {
			asset = data
		}
	}
	return &WidgetHandler{asset: asset}
}

// ServeWidget serves the widget document. Authorization already happened in
// the middleware; reaching this handler means the request was allowed.
func (h *WidgetHandler) ServeWidget(c *gin.Context) {
	body := h.asset
	if result, ok := middleware.GetWidgetAuthResult(c); ok {
		body = bytes.ReplaceAll(body, []byte(widgetHostPlaceholder), []byte(result.MatchedHost))
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
