package rest

import (
	"net/http"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// summaryResponse — счётчики очереди и сводка для оператора.
type summaryResponse struct {
	domain.StatusCounts
	Unsynced int    `json:"unsynced"`
	Message  string `json:"message"`
}

func (h *Handler) enqueueOrder(c *gin.Context) {
	var draft domain.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if h.deps.Validator != nil {
		if err := h.deps.Validator.Validate(ctx, &draft); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	id, err := h.deps.Orders.Enqueue(ctx, draft)
	if err != nil {
		h.writeError(c, "Enqueue", "", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) listOrders(c *gin.Context) {
	statuses, err := httpx.ParseStatusFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if len(statuses) == 0 {
		statuses = []domain.OrderStatus{domain.StatusPending, domain.StatusSyncing, domain.StatusError}
	}

	out := make([]*domain.PendingOrder, 0)
	for _, st := range statuses {
		orders, err := h.deps.Orders.ListByStatus(ctx, st)
		if err != nil {
			h.writeError(c, "ListByStatus", string(st), err)
			return
		}
		out = append(out, orders...)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ordersSummary(c *gin.Context) {
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	counts, err := h.deps.Orders.CountsByStatus(ctx)
	if err != nil {
		h.writeError(c, "CountsByStatus", "", err)
		return
	}
	c.JSON(http.StatusOK, summaryResponse{StatusCounts: counts, Unsynced: counts.Unsynced(), Message: counts.Summary()})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	order, err := h.deps.Orders.Get(ctx, id)
	if err != nil {
		h.writeError(c, "Get", id, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// retryOrder — ручной повтор: error → pending.
func (h *Handler) retryOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if err := h.deps.Orders.MarkPending(ctx, id); err != nil {
		h.writeError(c, "MarkPending", id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// discardOrder — оператор отказывается от заказа; во время отправки запрещено.
func (h *Handler) discardOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestCtx(c)
	defer cancel()

	if err := h.deps.Orders.Discard(ctx, id); err != nil {
		h.writeError(c, "Discard", id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// orderID — :id из пути; на недопустимый id отвечает 400.
func (h *Handler) orderID(c *gin.Context) (string, bool) {
	id, err := httpx.OrderIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}
