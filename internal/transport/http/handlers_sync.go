package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/gin-gonic/gin"
)

type decisionRequest struct {
	Decision domain.ReviewDecision `json:"decision"`
}

type connectivityRequest struct {
	Online *bool `json:"online"`
}

type freshnessRequest struct {
	LastSynced  time.Time `json:"lastSynced"`
	RecordCount int       `json:"recordCount"`
}

// startSync — ручной запуск; цикл идёт в фоне, состояние — в /sync/status.
func (h *Handler) startSync(c *gin.Context) {
	if err := h.deps.Sync.Launch(c.Request.Context(), domain.TriggerManual); err != nil {
		h.writeError(c, "Launch", "", err)
		return
	}
	c.JSON(http.StatusAccepted, h.deps.Sync.Status())
}

func (h *Handler) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Sync.Status())
}

func (h *Handler) conflicts(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()
	c.JSON(http.StatusOK, h.deps.Sync.Conflicts(ctx))
}

// currentReview — заказ, по которому ждут решения оператора; 204, если ничего не ждут.
func (h *Handler) currentReview(c *gin.Context) {
	if h.deps.Review == nil {
		c.Status(http.StatusNoContent)
		return
	}
	req, ok := h.deps.Review.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) answerReview(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	if h.deps.Review == nil {
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrNoPendingReview.Error()})
		return
	}

	var body decisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	if !body.Decision.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be confirm or cancel"})
		return
	}

	if err := h.deps.Review.Answer(id, body.Decision); err != nil {
		h.writeError(c, "Answer", id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.deps.Connectivity.IsOnline()})
}

// setConnectivity — наблюдение сети от оболочки платформы.
func (h *Handler) setConnectivity(c *gin.Context) {
	var body connectivityRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Online == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `body must be {"online": bool}`})
		return
	}
	h.deps.Connectivity.Observe(c.Request.Context(), *body.Online)
	c.JSON(http.StatusOK, gin.H{"online": h.deps.Connectivity.IsOnline()})
}

// putFreshness — отметка об обновлении категории справочника.
func (h *Handler) putFreshness(c *gin.Context) {
	category := c.Param("category")

	var body freshnessRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	updated, err := h.deps.Freshness.RecordEvent(ctx, freshness.RefreshEvent{
		Category:    category,
		LastSynced:  body.LastSynced,
		RecordCount: body.RecordCount,
	})
	if err != nil {
		h.writeError(c, "RecordEvent", category, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// writeError — сопоставление доменных ошибок со статусами HTTP.
func (h *Handler) writeError(c *gin.Context, op, id string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSyncInProgress),
		errors.Is(err, domain.ErrNoPendingReview):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidFreshnessEvent),
		errors.Is(err, domain.ErrUnknownCategory):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed id=%s err=%v", op, id, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
