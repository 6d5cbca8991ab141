package httpx

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/gin-gonic/gin"
)

const maxOrderIDLen = 64

// ErrBadOrderID — идентификатор заказа в пути пуст, слишком длинный или содержит недопустимые символы.
var ErrBadOrderID = errors.New("bad order id")

// OrderIDParam — :id из пути; допускаются буквы, цифры, '-' и '_'.
func OrderIDParam(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || len(id) > maxOrderIDLen {
		return "", ErrBadOrderID
	}
	for _, r := range id {
		ok := r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrBadOrderID, id)
		}
	}
	return id, nil
}

// ParseStatusFilter — необязательный фильтр ?status=pending,error (регистр не важен, повторы схлопываются).
// Без фильтра возвращает nil.
func ParseStatusFilter(c *gin.Context) ([]domain.OrderStatus, error) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return nil, nil
	}

	var out []domain.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		st, err := domain.ParseOrderStatus(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, st) {
			out = append(out, st)
		}
	}
	return out, nil
}
