package domain

import (
	"time"

	"github.com/google/uuid"
)

// idempotencyNamespace — пространство имён UUIDv5 для ключей идемпотентности.
var idempotencyNamespace = uuid.MustParse("6f1c3a52-9d7e-4b8a-a1f0-3c2e5d4b7a90")

// IdempotencyKey — детерминированный ключ из deviceId и id заказа.
// Повторная отправка того же заказа всегда несёт тот же ключ.
func IdempotencyKey(deviceID, orderID string) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(deviceID+":"+orderID)).String()
}

// OrderSubmission — запрос на создание заказа в бэкенде.
type OrderSubmission struct {
	OrderID        string      `json:"-"`
	CustomerID     string      `json:"customerId"`
	CustomerName   string      `json:"customerName"`
	Items          []OrderItem `json:"items"`
	IdempotencyKey string      `json:"idempotencyKey"`
}

// SubmissionReceipt — подтверждение бэкенда о принятом заказе.
type SubmissionReceipt struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	JobID          string    `json:"jobId"`
	AcceptedAt     time.Time `json:"acceptedAt"`
}

// SyncTrigger — источник запуска синхронизации.
type SyncTrigger string

const (
	TriggerReconnect SyncTrigger = "reconnect"
	TriggerManual    SyncTrigger = "manual"
)

// Automatic — запуск без участия оператора (на него действует лимит повторов).
func (t SyncTrigger) Automatic() bool { return t != TriggerManual }

// DrainResult — итог прохода по очереди.
type DrainResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// ReviewDecision — решение оператора по заказу на устаревших данных.
type ReviewDecision string

const (
	DecisionConfirm ReviewDecision = "confirm"
	DecisionCancel  ReviewDecision = "cancel"
)

// Valid — известное ли решение.
func (d ReviewDecision) Valid() bool { return d == DecisionConfirm || d == DecisionCancel }

// ReviewRequest — один заказ, предъявляемый оператору, с прогрессом (current из total).
type ReviewRequest struct {
	Order           *PendingOrder `json:"order"`
	Current         int           `json:"current"`
	Total           int           `json:"total"`
	StaleCategories []Category    `json:"staleCategories"`
}

// ReviewOutcome — итог ревью.
type ReviewOutcome struct {
	Confirmed []string `json:"confirmed"`
	Canceled  []string `json:"canceled"`
}

// SyncPhase — фаза текущей синхронизации.
type SyncPhase string

const (
	PhaseIdle      SyncPhase = "idle"
	PhaseChecking  SyncPhase = "checking"
	PhaseReviewing SyncPhase = "reviewing"
	PhaseDraining  SyncPhase = "draining"
)

// SyncReport — результат одного цикла синхронизации.
type SyncReport struct {
	Trigger    SyncTrigger    `json:"trigger"`
	Conflicts  ConflictReport `json:"conflicts"`
	Review     ReviewOutcome  `json:"review"`
	Drain      DrainResult    `json:"drain"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// SyncStatus — снимок состояния для UI.
type SyncStatus struct {
	InProgress bool        `json:"inProgress"`
	Phase      SyncPhase   `json:"phase"`
	Completed  int         `json:"completed"`
	Total      int         `json:"total"`
	LastReport *SyncReport `json:"lastReport,omitempty"`
}
