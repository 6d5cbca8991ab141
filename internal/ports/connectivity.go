package ports

import "context"

// ConnectivitySignal — булев сигнал сети от платформы.
type ConnectivitySignal interface {
	// IsOnline — последнее известное состояние.
	IsOnline() bool
	// Watch — подписка на наблюдения вместе с состоянием на момент подписки.
	// Подписчик получает ровно те наблюдения, что сделаны после возвращённого состояния.
	Watch(fn func(ctx context.Context, online bool)) (online bool, unsubscribe func())
}
