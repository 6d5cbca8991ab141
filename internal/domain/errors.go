package domain

import "errors"

// Ошибки очереди и хранилища.
var (
	ErrOrderNotFound     = errors.New("pending order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrStorage — отказ локального хранилища; всегда пробрасывается вызывающему.
	ErrStorage = errors.New("local storage failure")
)

// Ошибки удалённого вызова; изолируются на уровне одного заказа.
var (
	ErrTransport         = errors.New("order backend transport failure")
	ErrMalformedResponse = errors.New("order backend malformed response")
)

// Ошибки синхронизации и ревью.
var (
	ErrSyncInProgress  = errors.New("sync already in progress")
	ErrReviewAborted   = errors.New("conflict review aborted")
	ErrNoPendingReview = errors.New("no order awaiting review")
	ErrReviewBusy      = errors.New("another order is already under review")
)

// Ошибки справочников.
var (
	ErrUnknownCategory       = errors.New("unknown reference data category")
	ErrInvalidFreshnessEvent = errors.New("invalid freshness event")
)
