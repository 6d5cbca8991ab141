// Пакет backend — HTTP-клиент удалённого эндпоинта создания заказов.
package backend

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
	"github.com/Gunvolt24/ordersync/internal/ports"
	"github.com/Gunvolt24/ordersync/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Проверка, что Client удовлетворяет интерфейсу бэкенда заказов.
var _ ports.OrderBackend = (*Client)(nil)

// maxResponseBody — ответ бэкенда читается не больше этого объёма.
const maxResponseBody = 1 << 20

// StatusError — бэкенд ответил не-2xx. Относится к транспортным ошибкам одного заказа.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("order backend responded HTTP %d", e.Code)
	}
	return fmt.Sprintf("order backend responded HTTP %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrTransport }

// Client — POST заказа с ключом идемпотентности.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        ports.Logger
	now        func() time.Time
}

// Option — настройка клиента.
type Option func(*Client)

// WithHTTPClient — свой *http.Client (тесты, прокси). Транспорт не оборачивается повторно.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken — bearer-токен сессии, полученный при разблокировке устройства.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// NewClient — клиент для baseURL+ordersPath; транспорт инструментирован otelhttp.
func NewClient(baseURL, ordersPath string, timeout time.Duration, log ports.Logger, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", baseURL, err)
	}
	endpoint, err := url.JoinPath(baseURL, ordersPath)
	if err != nil {
		return nil, fmt.Errorf("invalid backend orders path %q: %w", ordersPath, err)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		endpoint: endpoint,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// createResponse — jobId приходит на верхнем уровне или внутри data.
type createResponse struct {
	JobID string `json:"jobId"`
	Data  *struct {
		JobID string `json:"jobId"`
	} `json:"data"`
}

func (r createResponse) jobID() string {
	if r.JobID != "" {
		return r.JobID
	}
	if r.Data != nil {
		return r.Data.JobID
	}
	return ""
}

// CreateOrder — отправка одного заказа.
// Ошибки: сеть и не-2xx — domain.ErrTransport, битый ответ — domain.ErrMalformedResponse.
func (c *Client) CreateOrder(ctx context.Context, sub *domain.OrderSubmission) (*domain.SubmissionReceipt, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode order %s: %w", sub.OrderID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", sub.IdempotencyKey)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		metrics.BackendRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequests.WithLabelValues("rejected").Inc()
		return nil, &StatusError{Code: resp.StatusCode, Body: snippet(body)}
	}

	var parsed createResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.BackendRequests.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	jobID := parsed.jobID()
	if jobID == "" {
		metrics.BackendRequests.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: jobId missing", domain.ErrMalformedResponse)
	}

	metrics.BackendRequests.WithLabelValues("accepted").Inc()
	c.log.Infof(ctx, "order accepted by backend id=%s job_id=%s", sub.OrderID, jobID)
	return &domain.SubmissionReceipt{
		IdempotencyKey: sub.IdempotencyKey,
		JobID:          jobID,
		AcceptedAt:     c.now().UTC(),
	}, nil
}

// IsStatus — ошибка является ответом бэкенда с указанным кодом.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// snippet — начало тела ответа для сообщения об ошибке заказа.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	const limit = 200
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
