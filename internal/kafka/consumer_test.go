package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/ordersync/internal/domain"
	"github.com/Gunvolt24/ordersync/internal/freshness"
	"github.com/Gunvolt24/ordersync/internal/kafka/mocks"
	"github.com/Gunvolt24/ordersync/internal/repo/memory"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var testReaderConfig = kafka.ReaderConfig{Topic: "refdata.refreshed", GroupID: "ordersync", Brokers: []string{"b:9092"}}

const pricesEvent = `{"category":"prices","lastSynced":"2026-03-01T08:00:00Z","recordCount":1500}`

func newTestConsumer(r reader, rec eventRecorder) *Consumer {
	return &Consumer{
		reader:         r,
		recorder:       rec,
		log:            nopLogger{},
		processTimeout: 30 * time.Millisecond,
		retryInitial:   5 * time.Millisecond,
		retryMax:       10 * time.Millisecond,
	}
}

// expectBlockingFetch — следующий fetch ждёт отмены контекста.
func expectBlockingFetch(r *mocks.Mockreader) *gomock.Call {
	return r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

// runUntilIdle запускает Run, даёт ему обработать сообщения и останавливает.
func runUntilIdle(t *testing.T, c *Consumer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

func TestRun_RecordedEventCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 1, Value: []byte(pricesEvent)}, nil),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev freshness.RefreshEvent) (bool, error) {
				require.Equal(t, "prices", ev.Category)
				require.Equal(t, 1500, ev.RecordCount)
				require.True(t, ev.LastSynced.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)))
				return true, nil
			}),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Запоздавшее событие не меняет отметку, но оффсет всё равно коммитится.
func TestRun_OlderEventStillCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 4, Value: []byte(pricesEvent)}, nil),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(false, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Битое тело до Recorder не доходит и коммитится, чтобы не застревать на нём.
func TestRun_MalformedBodyCommitsWithoutRecording(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 7, Value: []byte("bad")}, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Recorder отверг событие (неизвестная категория): оффсет коммитится.
func TestRun_RejectedEventCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).
			Return(kafka.Message{Offset: 8, Value: []byte(`{"category":"ddt","lastSynced":"2026-03-01T08:00:00Z"}`)}, nil),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).
			Return(false, errors.Join(domain.ErrInvalidFreshnessEvent, domain.ErrUnknownCategory)),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Ошибка хранилища: оффсет не коммитится, сообщение придёт снова.
// Сбой хранилища: то же сообщение повторяется, пока не запишется; следующий fetch только после коммита.
func TestRun_StorageFailureRetriesSameMessageBeforeNextFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	pricesOnly := func(_ context.Context, ev freshness.RefreshEvent) {
		require.Equal(t, "prices", ev.Category)
	}

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 2, Value: []byte(pricesEvent)}, nil),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Do(pricesOnly).Return(false, domain.ErrStorage),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Do(pricesOnly).Return(false, domain.ErrStorage),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Do(pricesOnly).Return(true, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				require.Equal(t, int64(2), msgs[0].Offset)
				return nil
			}),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Хранилище недоступно до остановки: оффсет не коммитится, новых fetch нет.
func TestRun_StorageFailureNoCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 2, Value: []byte(pricesEvent)}, nil)
	rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(false, domain.ErrStorage).MinTimes(2)
	// CommitMessages и второй FetchMessage не ожидаются: лишний вызов уронит тест как unexpected call

	runUntilIdle(t, newTestConsumer(r, rec))
}

func TestRun_FetchErrorRetriesUntilDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errors.New("broker error")).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, newTestConsumer(r, rec).Run(ctx), context.DeadlineExceeded)
}

func TestRun_CommitErrorOnlyWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	rec := mocks.NewMockeventRecorder(ctrl)

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 3, Value: []byte(pricesEvent)}, nil),
		rec.EXPECT().RecordEvent(gomock.Any(), gomock.Any()).Return(true, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary")),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))
}

// Сообщение проходит через настоящий Recorder и оказывается в хранилище.
func TestRun_WithRecorderStoresFreshness(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	store := memory.NewStore()
	rec := freshness.NewRecorder(store, nopLogger{})

	ts := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	good := kafka.Message{
		Offset: 11,
		Key:    []byte("Prezzi"),
		Value:  []byte(`{"lastSynced":"` + ts.Format(time.RFC3339) + `","recordCount":120}`),
	}
	bad := kafka.Message{Offset: 10, Value: []byte(`{"category":"ddt","lastSynced":"2026-01-01T00:00:00Z"}`)}

	r.EXPECT().Config().Return(testReaderConfig).AnyTimes()
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(bad, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(good, nil),
		r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil),
		expectBlockingFetch(r),
	)

	runUntilIdle(t, newTestConsumer(r, rec))

	got, err := store.GetFreshness(context.Background(), domain.CategoryPrices)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.LastSynced.Equal(ts))
	require.Equal(t, 120, got.RecordCount)
}

func TestClose_DelegatesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, mocks.NewMockeventRecorder(ctrl))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestBackoffHelpers(t *testing.T) {
	c := newTestConsumer(nil, nil)
	require.Equal(t, 10*time.Millisecond, c.nextBackoff(5*time.Millisecond))
	require.Equal(t, 10*time.Millisecond, c.nextBackoff(10*time.Millisecond))

	for i := 0; i < 50; i++ {
		d := equalJitter(8 * time.Millisecond)
		require.GreaterOrEqual(t, d, 4*time.Millisecond)
		require.LessOrEqual(t, d, 8*time.Millisecond)
	}
	require.Zero(t, equalJitter(0))

	require.Equal(t, time.Second, orDefault(0, time.Second))
	require.Equal(t, time.Minute, orDefault(time.Minute, time.Second))
}
