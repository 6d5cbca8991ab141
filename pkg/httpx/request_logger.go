package httpx

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// quietPaths — служебные и опрашиваемые UI маршруты; успешные ответы по ним не логируются.
var quietPaths = map[string]struct{}{
	"/metrics":      {},
	"/ping":         {},
	"/sync/status":  {},
	"/sync/review":  {},
	"/connectivity": {},
}

// RequestLogger — access-лог запросов. Уровень по статусу: 5xx — error, 4xx — warn.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if _, quiet := quietPaths[path]; quiet && c.Request.Method == http.MethodGet && status < http.StatusBadRequest {
			return
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		tr, _ := ctxmeta.TraceIDFromContext(ctx)

		logf := log.Infof
		switch {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}
		logf(ctx, "http request id=%s trace=%s method=%s path=%s status=%d duration=%s size=%d",
			rid, tr, c.Request.Method, path, status, time.Since(start), c.Writer.Size())
	}
}
