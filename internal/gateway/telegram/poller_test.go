package telegram

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	mu      sync.Mutex
	batches [][]Update
	errs    []error
	offsets []int64
}

func (s *scriptedSource) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]Update, error) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		s.mu.Unlock()
		return nil, err
	}
	if len(s.batches) > 0 {
		batch := s.batches[0]
		s.batches = s.batches[1:]
		s.mu.Unlock()
		return batch, nil
	}
	s.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *scriptedSource) seenOffsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.offsets...)
}

type memoryOffsets struct {
	mu     sync.Mutex
	offset int64
}

func (m *memoryOffsets) Load(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset, nil
}

func (m *memoryOffsets) Save(_ context.Context, offset int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
	return nil
}

type collectingHandler struct {
	mu      sync.Mutex
	byChat  map[int64][]int64
	total   int
	want    int
	done    chan struct{}
	closeFn sync.Once
}

func newCollectingHandler(want int) *collectingHandler {
	return &collectingHandler{byChat: map[int64][]int64{}, want: want, done: make(chan struct{})}
}

func (h *collectingHandler) HandleUpdate(_ context.Context, update Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byChat[update.Message.Chat.ID] = append(h.byChat[update.Message.Chat.ID], update.UpdateID)
	h.total++
	if h.total == h.want {
		h.closeFn.Do(func() { close(h.done) })
	}
}

func messageUpdate(id, chatID int64) Update {
	return Update{UpdateID: id, Message: &Message{MessageID: id, Chat: Chat{ID: chatID}, From: &User{ID: chatID}, Text: "101"}}
}

func runPoller(t *testing.T, poller *Poller, handler *collectingHandler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- poller.Run(ctx) }()

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("updates were not handled in time")
	}
	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerKeepsPerChatOrderAndAdvancesOffset(t *testing.T) {
	source := &scriptedSource{batches: [][]Update{
		{messageUpdate(5, 1), messageUpdate(6, 2), messageUpdate(7, 1)},
		{messageUpdate(8, 3), messageUpdate(9, 1), messageUpdate(10, -100)},
	}}
	offsets := &memoryOffsets{offset: 5}
	handler := newCollectingHandler(6)

	poller := NewPoller(source, handler, offsets, time.Second, 3, zerolog.New(io.Discard))
	runPoller(t, poller, handler)

	require.Equal(t, []int64{5, 7, 9}, handler.byChat[1])
	require.Equal(t, []int64{6}, handler.byChat[2])
	require.Equal(t, []int64{10}, handler.byChat[-100])

	seen := source.seenOffsets()
	require.GreaterOrEqual(t, len(seen), 2)
	require.Equal(t, []int64{5, 8}, seen[:2])

	stored, err := offsets.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(11), stored)
}

func TestPollerContinuesAfterGatewayError(t *testing.T) {
	source := &scriptedSource{
		errs:    []error{&APIError{Method: "getUpdates", Code: 502, Description: "Bad Gateway"}, errors.New("connection refused")},
		batches: [][]Update{{messageUpdate(1, 1)}},
	}
	handler := newCollectingHandler(1)

	poller := NewPoller(source, handler, nil, time.Second, 0, zerolog.New(io.Discard))
	poller.backoff = time.Millisecond
	runPoller(t, poller, handler)

	require.Equal(t, []int64{1}, handler.byChat[1])
	require.GreaterOrEqual(t, len(source.seenOffsets()), 3)
}

func TestUpdateHandlerFunc(t *testing.T) {
	var got int64
	UpdateHandlerFunc(func(_ context.Context, update Update) { got = update.UpdateID }).HandleUpdate(context.Background(), Update{UpdateID: 3})
	require.Equal(t, int64(3), got)
}
