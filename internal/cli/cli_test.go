package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent — минимальная реализация операторского API для команд.
type fakeAgent struct {
	mu       sync.Mutex
	enqueued []domain.OrderDraft
	answers  map[string]domain.ReviewDecision
	online   bool
	review   *domain.ReviewRequest
	polls    int32
}

func (a *fakeAgent) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /orders/summary", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Summary{
			StatusCounts: domain.StatusCounts{Pending: 2, Error: 1},
			Unsynced:     3,
			Message:      "3 ordini non sincronizzati",
		})
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		all := []*domain.PendingOrder{
			{ID: "o1", Status: domain.StatusPending, CustomerName: "Rossi"},
			{ID: "o2", Status: domain.StatusError, CustomerName: "Bianchi", ErrorMessage: "timeout"},
		}
		out := make([]*domain.PendingOrder, 0)
		for _, o := range all {
			if st := r.URL.Query().Get("status"); st == "" || string(o.Status) == st {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var d domain.OrderDraft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
			return
		}
		a.mu.Lock()
		a.enqueued = append(a.enqueued, d)
		id := "new-" + d.CustomerID
		a.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	})
	mux.HandleFunc("POST /orders/{id}/retry", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "o2" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": domain.ErrOrderNotFound.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /sync", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusAccepted, domain.SyncStatus{InProgress: true, Phase: domain.PhaseChecking})
	})
	mux.HandleFunc("GET /sync/status", func(w http.ResponseWriter, _ *http.Request) {
		// Первые два опроса цикл ещё идёт.
		if atomic.AddInt32(&a.polls, 1) <= 2 {
			writeJSON(w, http.StatusOK, domain.SyncStatus{InProgress: true, Phase: domain.PhaseDraining, Completed: 1, Total: 2})
			return
		}
		writeJSON(w, http.StatusOK, domain.SyncStatus{
			Phase:      domain.PhaseIdle,
			LastReport: &domain.SyncReport{Trigger: domain.TriggerManual, Drain: domain.DrainResult{Success: 2}},
		})
	})
	mux.HandleFunc("GET /sync/conflicts", func(w http.ResponseWriter, _ *http.Request) {
		ts := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
		writeJSON(w, http.StatusOK, domain.ConflictReport{
			HasConflicts:    true,
			StaleCategories: []domain.Category{domain.CategoryPrices},
			CacheAge: map[domain.Category]*time.Time{
				domain.CategoryCustomers: &ts,
				domain.CategoryProducts:  &ts,
				domain.CategoryPrices:    nil,
			},
		})
	})
	mux.HandleFunc("GET /sync/review", func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.review == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, a.review)
	})
	mux.HandleFunc("POST /sync/review/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Decision domain.ReviewDecision `json:"decision"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.review == nil || a.review.Order.ID != r.PathValue("id") {
			writeJSON(w, http.StatusConflict, map[string]string{"error": domain.ErrNoPendingReview.Error()})
			return
		}
		a.answers[r.PathValue("id")] = body.Decision
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /connectivity", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Online bool `json:"online"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		a.mu.Lock()
		a.online = body.Online
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, body)
	})
	return mux
}

func startAgent(t *testing.T) (*fakeAgent, string) {
	t.Helper()
	a := &fakeAgent{answers: map[string]domain.ReviewDecision{}}
	srv := httptest.NewServer(a.handler())
	t.Cleanup(srv.Close)
	return a, srv.URL
}

func run(t *testing.T, addr string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--addr", addr}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ordersyncctl", cmd.Use)

	for _, name := range []string{"status", "orders", "sync", "conflicts", "review", "online", "offline", "validate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}
	for _, name := range []string{"list", "retry", "discard", "import"} {
		sub, _, err := cmd.Find([]string{"orders", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, url := startAgent(t)
	_, _, err := run(t, url, "", "--format", "yaml", "status")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStatus_Text(t *testing.T) {
	a, url := startAgent(t)
	atomic.StoreInt32(&a.polls, 10)

	out, _, err := run(t, url, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "3 ordini non sincronizzati")
	assert.Contains(t, out, "pending=2 syncing=0 error=1")
	assert.Contains(t, out, "sync: idle")
	assert.Contains(t, out, "trigger=manual success=2 failed=0")
}

func TestOrdersList_JSONFiltered(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "--format", "json", "orders", "list", "--status", "error")
	require.NoError(t, err)

	var got []domain.PendingOrder
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "o2", got[0].ID)
}

func TestOrdersList_Table(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "Rossi")
	assert.Contains(t, out, "timeout")
}

func TestOrdersList_UnknownStatus(t *testing.T) {
	_, url := startAgent(t)
	_, _, err := run(t, url, "", "orders", "list", "--status", "done")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOrdersRetryAndDiscard(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "orders", "retry", "o2")
	require.NoError(t, err)
	assert.Equal(t, "order o2 retried\n", out)

	_, _, err = run(t, url, "", "orders", "retry", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "404")

	out, _, err = run(t, url, "", "orders", "discard", "o1")
	require.NoError(t, err)
	assert.Equal(t, "order o1 discarded\n", out)
}

func TestOrdersImport_SkipsInvalidDrafts(t *testing.T) {
	a, url := startAgent(t)

	path := filepath.Join(t.TempDir(), "drafts.jsonl")
	lines := strings.Join([]string{
		`{"customerId":"C1","customerName":"Bar Centrale","items":[{"articleCode":"CAF-01","quantity":3,"unitPrice":"1.234,50 €"}]}`,
		`{"customerId":"","customerName":"x","items":[]}`,
		``,
		`{"customerId":"C2","customerName":"Osteria","items":[{"articleCode":"VIN-07","quantity":1,"unitPrice":9.9,"discount":"12,5 %"}]}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o600))

	out, errOut, err := run(t, url, "", "orders", "import", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "2 enqueued / 1 invalid")
	assert.Contains(t, errOut, "line 2")

	a.mu.Lock()
	defer a.mu.Unlock()
	require.Len(t, a.enqueued, 2)
	assert.Equal(t, 1234.5, a.enqueued[0].Items[0].UnitPrice)
	require.NotNil(t, a.enqueued[1].Items[0].Discount)
	assert.Equal(t, 12.5, *a.enqueued[1].Items[0].Discount)
}

func TestSync_Wait(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "sync", "--wait", "--poll-interval", "5ms")
	require.NoError(t, err)
	assert.Contains(t, out, "sync finished: success=2 failed=0")
}

func TestSync_NoWait(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "sync started: checking")
}

func TestConflicts_Table(t *testing.T) {
	_, url := startAgent(t)

	out, _, err := run(t, url, "", "conflicts")
	require.NoError(t, err)
	assert.Contains(t, out, "prices")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "STALE")
}

func TestReview_ShowAndAnswer(t *testing.T) {
	a, url := startAgent(t)

	out, _, err := run(t, url, "", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing awaiting review")

	d := 10.0
	a.mu.Lock()
	a.review = &domain.ReviewRequest{
		Order: &domain.PendingOrder{ID: "o1", CustomerID: "C1", CustomerName: "Rossi",
			Items: []domain.OrderItem{{ArticleCode: "A", Quantity: 2, UnitPrice: 3, Discount: &d}}},
		Current: 1, Total: 2, StaleCategories: []domain.Category{domain.CategoryPrices},
	}
	a.mu.Unlock()

	out, _, err = run(t, url, "", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "order 1 of 2: o1")
	assert.Contains(t, out, "10.00%")

	_, _, err = run(t, url, "", "review", "o1", "cancel")
	require.NoError(t, err)
	a.mu.Lock()
	assert.Equal(t, domain.DecisionCancel, a.answers["o1"])
	a.mu.Unlock()

	_, _, err = run(t, url, "", "review", "other", "confirm")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReview_BadArguments(t *testing.T) {
	_, url := startAgent(t)

	_, _, err := run(t, url, "", "review", "o1", "maybe")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = run(t, url, "", "review", "o1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOnlineOffline(t *testing.T) {
	a, url := startAgent(t)

	out, _, err := run(t, url, "", "online")
	require.NoError(t, err)
	assert.Equal(t, "online=true\n", out)
	a.mu.Lock()
	assert.True(t, a.online)
	a.mu.Unlock()

	out, _, err = run(t, url, "", "--format", "json", "offline")
	require.NoError(t, err)
	assert.JSONEq(t, `{"online":false}`, out)
}

func TestValidate_StdinOffline(t *testing.T) {
	in := `{"customerId":"C1","customerName":"Bar","items":[{"articleCode":"A","quantity":1,"unitPrice":"2,50"}]}` + "\n"

	// Агент не нужен: адрес намеренно недоступен.
	out, errOut, err := run(t, "http://127.0.0.1:1", in, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, `"unitPrice":2.5`)
	assert.Contains(t, errOut, "validation ok (1 valid / 0 invalid)")

	_, errOut, err = run(t, "http://127.0.0.1:1", `{"customerId":""}`+"\n", "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "line 1")
}

func TestAgentUnreachable(t *testing.T) {
	_, _, err := run(t, "http://127.0.0.1:1", "", "--timeout", "200ms", "status")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNewClient_RejectsBadAddress(t *testing.T) {
	_, err := NewClient("localhost", time.Second)
	require.Error(t, err)
}

func TestOrdersImport_JSONArray(t *testing.T) {
	a, url := startAgent(t)

	path := filepath.Join(t.TempDir(), "shift.json")
	doc := `[
		{"customerId":"C1","customerName":"Bar Centrale","items":[{"articleCode":"CAF-01","quantity":2,"unitPrice":"3,20"}]},
		{"customerId":"C2","customerName":"Osteria","items":[{"articleCode":"VIN-07","quantity":1,"unitPrice":9.9}]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, _, err := run(t, url, "", "orders", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 enqueued / 0 invalid")

	a.mu.Lock()
	defer a.mu.Unlock()
	require.Len(t, a.enqueued, 2)
	assert.Equal(t, 3.2, a.enqueued[0].Items[0].UnitPrice)
}

func TestValidate_UnknownInputFormat(t *testing.T) {
	_, _, err := run(t, "http://127.0.0.1:1", "", "validate", "--input-format", "csv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
