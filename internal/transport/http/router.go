package rest

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// reviewBroker — вопрос оператору, выставленный текущим ревью.
type reviewBroker interface {
	Current() (domain.ReviewRequest, bool)
	Answer(orderID string, decision domain.ReviewDecision) error
}

// connectivityObserver — сигнал сети от оболочки платформы.
type connectivityObserver interface {
	IsOnline() bool
	Observe(ctx context.Context, online bool)
}

// freshnessRecorder — запись отметок свежести справочников.
type freshnessRecorder interface {
	RecordEvent(ctx context.Context, ev freshness.RefreshEvent) (bool, error)
}

// Deps — зависимости обработчиков.
type Deps struct {
	Orders       ports.PendingOrderService
	Sync         ports.SyncService
	Review       reviewBroker
	Connectivity connectivityObserver
	Freshness    freshnessRecorder
	Validator    ports.OrderValidator
}

// Handler — HTTP API агента для UI и оператора.
type Handler struct {
	deps    Deps
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — конструктор; timeout ограничивает обращения к хранилищу из одного запроса.
func NewHandler(deps Deps, log ports.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Handler{deps: deps, log: log, timeout: timeout}
}

// NewRouter — маршруты API. otelServiceName пустой — трейсинг запросов выключен.
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orders := r.Group("/orders")
	orders.POST("", h.enqueueOrder)
	orders.GET("", h.listOrders)
	orders.GET("/summary", h.ordersSummary)
	orders.GET("/:id", h.getOrder)
	orders.POST("/:id/retry", h.retryOrder)
	orders.DELETE("/:id", h.discardOrder)

	syncGroup := r.Group("/sync")
	syncGroup.POST("", h.startSync)
	syncGroup.GET("/status", h.syncStatus)
	syncGroup.GET("/conflicts", h.conflicts)
	syncGroup.GET("/review", h.currentReview)
	syncGroup.POST("/review/:id", h.answerReview)

	r.GET("/connectivity", h.getConnectivity)
	r.POST("/connectivity", h.setConnectivity)
	r.PUT("/cache-metadata/:category", h.putFreshness)

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}

// requestCtx — контекст запроса с таймаутом обработчика.
func (h *Handler) requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
