package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/observability"
)

const pollErrorDelay = 3 * time.Second

// UpdateSource yields updates through long polling.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// UpdateHandler processes a single update. Implementations handle their own errors.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// UpdateHandlerFunc adapts a function to UpdateHandler.
type UpdateHandlerFunc func(ctx context.Context, update Update)

// HandleUpdate calls f.
func (f UpdateHandlerFunc) HandleUpdate(ctx context.Context, update Update) {
	f(ctx, update)
}

// Poller receives updates with getUpdates and spreads them over workers.
// Updates of one chat always go to the same worker, so a chat's messages are
// handled in arrival order while different chats proceed concurrently.
type Poller struct {
	source  UpdateSource
	handler UpdateHandler
	offsets OffsetStore
	timeout time.Duration
	workers int
	backoff time.Duration
	logger  zerolog.Logger
}

// NewPoller constructs a poller. offsets may be nil.
func NewPoller(source UpdateSource, handler UpdateHandler, offsets OffsetStore, timeout time.Duration, workers int, logger zerolog.Logger) *Poller {
	if workers <= 0 {
		workers = 1
	}
	return &Poller{
		source:  source,
		handler: handler,
		offsets: offsets,
		timeout: timeout,
		workers: workers,
		backoff: pollErrorDelay,
		logger:  logger.With().Str("component", "telegram_poller").Logger(),
	}
}

// Run polls until ctx is cancelled, then waits for in-flight updates.
func (p *Poller) Run(ctx context.Context) error {
	offset := p.loadOffset(ctx)

	handlerCtx := context.WithoutCancel(ctx)
	queues := make([]chan Update, p.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan Update, 16)
		wg.Add(1)
		go func(queue <-chan Update) {
			defer wg.Done()
			for update := range queue {
				p.handler.HandleUpdate(handlerCtx, update)
			}
		}(queues[i])
	}

	defer func() {
		for _, queue := range queues {
			close(queue)
		}
		wg.Wait()
		p.logger.Info().Int64("offset", offset).Msg("poller stopped")
	}()

	p.logger.Info().Int64("offset", offset).Int("workers", p.workers).Msg("poller started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			observability.GatewayErrors().WithLabelValues("getUpdates").Inc()
			LogError(p.logger, err, "failed to fetch updates")
			if !sleepContext(ctx, p.backoff) {
				return nil
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			queue := queues[p.workerFor(update)]
			select {
			case queue <- update:
			case <-ctx.Done():
				return nil
			}
		}

		if len(updates) > 0 {
			p.saveOffset(ctx, offset)
		}
	}
}

func (p *Poller) workerFor(update Update) int {
	if update.Message == nil {
		return 0
	}
	return int(uint64(update.Message.Chat.ID) % uint64(p.workers))
}

func (p *Poller) loadOffset(ctx context.Context) int64 {
	if p.offsets == nil {
		return 0
	}
	offset, err := p.offsets.Load(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to load update offset")
		return 0
	}
	return offset
}

func (p *Poller) saveOffset(ctx context.Context, offset int64) {
	if p.offsets == nil {
		return
	}
	if err := p.offsets.Save(ctx, offset); err != nil {
		p.logger.Warn().Err(err).Int64("offset", offset).Msg("failed to save update offset")
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// LogError logs a gateway failure, expanding Bot API error details.
func LogError(logger zerolog.Logger, err error, msg string) {
	if apiErr, ok := IsAPIError(err); ok {
		logger.Error().
			Str("method", apiErr.Method).
			Int("error_code", apiErr.Code).
			Str("description", apiErr.Description).
			Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}
