package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/pkg/httpx"
	"github.com/google/uuid"
)

// APIError — ответ агента с кодом не 2xx.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("agent responded %d", e.Status)
	}
	return fmt.Sprintf("agent responded %d: %s", e.Status, e.Message)
}

// Client — клиент операторского API агента.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient — baseURL вида http://localhost:8080.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid agent address %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Summary — счётчики очереди со сводкой.
type Summary struct {
	domain.StatusCounts
	Unsynced int    `json:"unsynced"`
	Message  string `json:"message"`
}

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.do(ctx, http.MethodGet, "/orders/summary", nil, &out)
	return out, err
}

func (c *Client) SyncStatus(ctx context.Context) (domain.SyncStatus, error) {
	var out domain.SyncStatus
	err := c.do(ctx, http.MethodGet, "/sync/status", nil, &out)
	return out, err
}

// ListOrders — пустой status означает все статусы.
func (c *Client) ListOrders(ctx context.Context, status string) ([]*domain.PendingOrder, error) {
	path := "/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []*domain.PendingOrder
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Retry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(id)+"/retry", nil, nil)
}

func (c *Client) Discard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil)
}

// Enqueue — ставит черновик в очередь агента, возвращает id заказа.
func (c *Client) Enqueue(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", draft, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) StartSync(ctx context.Context) (domain.SyncStatus, error) {
	var out domain.SyncStatus
	err := c.do(ctx, http.MethodPost, "/sync", nil, &out)
	return out, err
}

func (c *Client) Conflicts(ctx context.Context) (domain.ConflictReport, error) {
	var out domain.ConflictReport
	err := c.do(ctx, http.MethodGet, "/sync/conflicts", nil, &out)
	return out, err
}

// CurrentReview — ok=false, если агент ничего не предъявляет оператору.
func (c *Client) CurrentReview(ctx context.Context) (req domain.ReviewRequest, ok bool, err error) {
	var out *domain.ReviewRequest
	if err := c.do(ctx, http.MethodGet, "/sync/review", nil, &out); err != nil {
		return domain.ReviewRequest{}, false, err
	}
	if out == nil {
		return domain.ReviewRequest{}, false, nil
	}
	return *out, true, nil
}

func (c *Client) AnswerReview(ctx context.Context, id string, decision domain.ReviewDecision) error {
	body := map[string]domain.ReviewDecision{"decision": decision}
	return c.do(ctx, http.MethodPost, "/sync/review/"+url.PathEscape(id), body, nil)
}

// SetOnline — сообщает агенту наблюдаемое состояние сети.
func (c *Client) SetOnline(ctx context.Context, online bool) (bool, error) {
	var out struct {
		Online bool `json:"online"`
	}
	err := c.do(ctx, http.MethodPost, "/connectivity", map[string]bool{"online": online}, &out)
	return out.Online, err
}

// do — запрос с JSON-телом; out == nil или 204 — тело ответа не разбирается.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(httpx.RequestIDHeader, "ordersyncctl-"+uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(raw, &payload) != nil || payload.Error == "" {
			payload.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
