package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/ordersync/internal/connectivity"
	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/ports/mocks"
	"github.com/Gunvolt24/ordersync/internal/repo/memory"
	"github.com/Gunvolt24/ordersync/internal/review"
	rest "github.com/Gunvolt24/ordersync/internal/transport/http"
	"github.com/Gunvolt24/ordersync/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

type env struct {
	orders  *mocks.MockPendingOrderService
	sync    *mocks.MockSyncService
	broker  *review.Broker
	monitor *connectivity.Monitor
	store   *memory.Store
	router  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	e := &env{
		orders:  mocks.NewMockPendingOrderService(ctrl),
		sync:    mocks.NewMockSyncService(ctrl),
		broker:  review.NewBroker(),
		monitor: connectivity.NewMonitor(noopLogger{}),
		store:   memory.NewStore(),
	}
	h := rest.NewHandler(rest.Deps{
		Orders:       e.orders,
		Sync:         e.sync,
		Review:       e.broker,
		Connectivity: e.monitor,
		Freshness:    freshness.NewRecorder(e.store, noopLogger{}),
		Validator:    validate.NewDraftValidator(),
	}, noopLogger{}, time.Second)
	e.router = rest.NewRouter(h, "", "")
	return e
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestEnqueue_ValidDraft(t *testing.T) {
	e := newEnv(t)
	draft := domain.OrderDraft{CustomerID: "C1", CustomerName: "Bar Roma",
		Items: []domain.OrderItem{{ArticleCode: "A1", Quantity: 2, UnitPrice: 3.5}}}
	e.orders.EXPECT().Enqueue(gomock.Any(), draft).Return("ord-1", nil)

	w := e.do(http.MethodPost, "/orders", draft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.JSONEq(t, `{"id":"ord-1"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEnqueue_InvalidDraftNeverReachesQueue(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/orders", domain.OrderDraft{CustomerID: "C1", CustomerName: "Bar"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(http.MethodPost, "/orders", "not an object")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrders_AllStatusesAndFilter(t *testing.T) {
	e := newEnv(t)
	gomock.InOrder(
		e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusPending).Return([]*domain.PendingOrder{{ID: "p1"}}, nil),
		e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusSyncing).Return(nil, nil),
		e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusError).Return([]*domain.PendingOrder{{ID: "e1"}}, nil),
	)

	w := e.do(http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.PendingOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "e1", got[1].ID)

	e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusError).Return([]*domain.PendingOrder{}, nil)
	w = e.do(http.MethodGet, "/orders?status=ERROR", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	w = e.do(http.MethodGet, "/orders?status=done", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	gomock.InOrder(
		e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusError).Return([]*domain.PendingOrder{{ID: "e2"}}, nil),
		e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusPending).Return([]*domain.PendingOrder{{ID: "p2"}}, nil),
	)
	w = e.do(http.MethodGet, "/orders?status=error,pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "e2", got[0].ID)
	require.Equal(t, "p2", got[1].ID)
}

func TestOrderRoutes_RejectBadID(t *testing.T) {
	e := newEnv(t)

	// Store не вызывается: id отбраковывается до обращения к очереди.
	require.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/orders/bad%20id", nil).Code)
	require.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/orders/o%3B1/retry", nil).Code)
	require.Equal(t, http.StatusBadRequest, e.do(http.MethodDelete, "/orders/"+strings.Repeat("x", 65), nil).Code)
}

func TestListOrders_StorageFailure(t *testing.T) {
	e := newEnv(t)
	e.orders.EXPECT().ListByStatus(gomock.Any(), domain.StatusPending).
		Return(nil, fmt.Errorf("%w: disk I/O error", domain.ErrStorage))

	w := e.do(http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestOrdersSummary(t *testing.T) {
	e := newEnv(t)
	e.orders.EXPECT().CountsByStatus(gomock.Any()).Return(domain.StatusCounts{Pending: 2, Error: 1}, nil)

	w := e.do(http.MethodGet, "/orders/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"pending":2,"syncing":0,"error":1,"unsynced":3,"message":"3 ordini non sincronizzati"}`, w.Body.String())
}

func TestGetOrder(t *testing.T) {
	e := newEnv(t)
	e.orders.EXPECT().Get(gomock.Any(), "ord-1").Return(&domain.PendingOrder{ID: "ord-1", Status: domain.StatusError}, nil)
	e.orders.EXPECT().Get(gomock.Any(), "missing").Return(nil, fmt.Errorf("%w: missing", domain.ErrOrderNotFound))

	w := e.do(http.MethodGet, "/orders/ord-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/orders/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRetryAndDiscard(t *testing.T) {
	e := newEnv(t)
	e.orders.EXPECT().MarkPending(gomock.Any(), "ord-1").Return(nil)
	e.orders.EXPECT().MarkPending(gomock.Any(), "ord-2").Return(fmt.Errorf("%w: pending -> pending", domain.ErrInvalidTransition))
	e.orders.EXPECT().Discard(gomock.Any(), "ord-3").Return(nil)
	e.orders.EXPECT().Discard(gomock.Any(), "ord-4").Return(fmt.Errorf("%w: order is syncing", domain.ErrInvalidTransition))

	require.Equal(t, http.StatusNoContent, e.do(http.MethodPost, "/orders/ord-1/retry", nil).Code)
	require.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/orders/ord-2/retry", nil).Code)
	require.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/orders/ord-3", nil).Code)
	require.Equal(t, http.StatusConflict, e.do(http.MethodDelete, "/orders/ord-4", nil).Code)
}

func TestStartSync(t *testing.T) {
	e := newEnv(t)
	gomock.InOrder(
		e.sync.EXPECT().Launch(gomock.Any(), domain.TriggerManual).Return(nil),
		e.sync.EXPECT().Status().Return(domain.SyncStatus{InProgress: true, Phase: domain.PhaseChecking}),
		e.sync.EXPECT().Launch(gomock.Any(), domain.TriggerManual).Return(domain.ErrSyncInProgress),
	)

	w := e.do(http.MethodPost, "/sync", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), `"inProgress":true`)

	w = e.do(http.MethodPost, "/sync", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), domain.ErrSyncInProgress.Error())
}

func TestSyncStatusAndConflicts(t *testing.T) {
	e := newEnv(t)
	e.sync.EXPECT().Status().Return(domain.SyncStatus{Phase: domain.PhaseIdle})
	e.sync.EXPECT().Conflicts(gomock.Any()).Return(domain.ConflictReport{
		HasConflicts: true, StaleCategories: []domain.Category{domain.CategoryPrices},
		CacheAge: map[domain.Category]*time.Time{domain.CategoryPrices: nil},
	})

	w := e.do(http.MethodGet, "/sync/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"phase":"idle"`)

	w = e.do(http.MethodGet, "/sync/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"hasConflicts":true,"staleCategories":["prices"],"cacheAge":{"prices":null}}`, w.Body.String())
}

// Ответ оператора через API разблокирует ожидающий Ask.
func TestReview_PromptAndAnswer(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, http.StatusNoContent, e.do(http.MethodGet, "/sync/review", nil).Code)

	decided := make(chan domain.ReviewDecision, 1)
	go func() {
		d, _ := e.broker.Ask(context.Background(), domain.ReviewRequest{
			Order: &domain.PendingOrder{ID: "ord-7"}, Current: 1, Total: 2,
			StaleCategories: []domain.Category{domain.CategoryProducts},
		})
		decided <- d
	}()
	require.Eventually(t, func() bool {
		return e.do(http.MethodGet, "/sync/review", nil).Code == http.StatusOK
	}, time.Second, 5*time.Millisecond)

	w := e.do(http.MethodGet, "/sync/review", nil)
	require.Contains(t, w.Body.String(), `"current":1`)
	require.Contains(t, w.Body.String(), `"ord-7"`)

	require.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/sync/review/ord-7", gin.H{"decision": "maybe"}).Code)
	require.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/sync/review/other", gin.H{"decision": "cancel"}).Code)
	require.Equal(t, http.StatusNoContent, e.do(http.MethodPost, "/sync/review/ord-7", gin.H{"decision": "cancel"}).Code)

	select {
	case d := <-decided:
		require.Equal(t, domain.DecisionCancel, d)
	case <-time.After(time.Second):
		t.Fatal("review answer not delivered")
	}
}

func TestConnectivity(t *testing.T) {
	e := newEnv(t)
	var seen []bool
	e.monitor.Subscribe(func(_ context.Context, online bool) { seen = append(seen, online) })

	w := e.do(http.MethodPost, "/connectivity", gin.H{"online": false})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"online":false}`, w.Body.String())
	require.False(t, e.monitor.IsOnline())

	require.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/connectivity", gin.H{}).Code)

	w = e.do(http.MethodGet, "/connectivity", nil)
	require.JSONEq(t, `{"online":false}`, w.Body.String())
	require.Equal(t, []bool{false}, seen)
}

func TestPutFreshness(t *testing.T) {
	e := newEnv(t)
	ts := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	w := e.do(http.MethodPut, "/cache-metadata/prodotti", gin.H{"lastSynced": ts, "recordCount": 900})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `{"updated":true}`, w.Body.String())

	rec, err := e.store.GetFreshness(context.Background(), domain.CategoryProducts)
	require.NoError(t, err)
	require.True(t, rec.LastSynced.Equal(ts))

	// более старая отметка не откатывает текущую
	w = e.do(http.MethodPut, "/cache-metadata/products", gin.H{"lastSynced": ts.Add(-time.Hour), "recordCount": 1})
	require.JSONEq(t, `{"updated":false}`, w.Body.String())

	w = e.do(http.MethodPut, "/cache-metadata/ddt", gin.H{"lastSynced": ts})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(http.MethodPut, "/cache-metadata/prices", gin.H{"recordCount": 3})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPing(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
}
