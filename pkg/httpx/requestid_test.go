package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/ordersync/pkg/ctxmeta"
	"github.com/Gunvolt24/ordersync/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// serveWithHeader — прогоняет запрос через middleware и возвращает id из ответа и из контекста.
func serveWithHeader(t *testing.T, header string) (respID, ctxID string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httpx.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		ctxID, _ = ctxmeta.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if header != "" {
		req.Header.Set(httpx.RequestIDHeader, header)
	}
	r.ServeHTTP(w, req)
	return w.Header().Get(httpx.RequestIDHeader), ctxID
}

func TestRequestIDMiddleware_GeneratesWhenMissing(t *testing.T) {
	rid, ctxID := serveWithHeader(t, "")

	parsed, err := uuid.Parse(rid)
	if err != nil {
		t.Fatalf("сгенерированный X-Request-ID должен быть UUID, got=%q err=%v", rid, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("ожидался UUIDv7, got version %d", parsed.Version())
	}
	if ctxID != rid {
		t.Fatalf("request id в контексте должен совпадать с заголовком: ctx=%q header=%q", ctxID, rid)
	}
}

func TestRequestIDMiddleware_UsesProvidedHeader(t *testing.T) {
	const provided = "ordersyncctl-42"

	rid, ctxID := serveWithHeader(t, provided)
	if rid != provided || ctxID != provided {
		t.Fatalf("middleware должен сохранять переданный X-Request-ID: header=%q ctx=%q want=%q", rid, ctxID, provided)
	}
}

func TestRequestIDMiddleware_ReplacesUnacceptableHeader(t *testing.T) {
	for name, bad := range map[string]string{
		"too long": strings.Repeat("a", 129),
		"spaces":   "id with spaces",
	} {
		t.Run(name, func(t *testing.T) {
			rid, _ := serveWithHeader(t, bad)
			if rid == bad {
				t.Fatalf("недопустимый id должен быть заменён")
			}
			if _, err := uuid.Parse(rid); err != nil {
				t.Fatalf("замена должна быть UUID, got=%q", rid)
			}
		})
	}
}
