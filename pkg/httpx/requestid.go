package httpx

import (
	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader — заголовок корреляции запросов UI/CLI с логами агента.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen — длиннее чужой id не принимаем.
const maxRequestIDLen = 128

// RequestIDMiddleware — берёт X-Request-ID клиента (если он печатный и не длиннее 128 символов)
// или выдаёт новый UUIDv7, кладёт его в контекст и возвращает в ответе.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !acceptableRequestID(requestID) {
			requestID = newRequestID()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// newRequestID — UUIDv7: id упорядочены по времени, логи удобно сортировать.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
