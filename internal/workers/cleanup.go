package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

// Purger removes ended giveaways past retention.
type Purger interface {
	PurgeEnded(ctx context.Context) (int, error)
}

// CleanupWorker calls PurgeEnded on a fixed interval.
type CleanupWorker struct {
	purger   Purger
	interval time.Duration
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCleanupWorker(purger Purger, interval time.Duration) *CleanupWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &CleanupWorker{
		purger:   purger,
		interval: interval,
		log:      logger.With("cleanup"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *CleanupWorker) Start() {
	w.log.Info().Dur("interval", w.interval).Msg("Starting cleanup worker")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.ctx.Done():
				return
			}
		}
	}()
}

func (w *CleanupWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.log.Info().Msg("Cleanup worker stopped")
}

func (w *CleanupWorker) runOnce() {
	n, err := w.purger.PurgeEnded(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Error purging ended giveaways")
		return
	}
	if n > 0 {
		w.log.Info().Int("purged", n).Msg("Purged ended giveaways")
	}
}
