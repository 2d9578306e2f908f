package audit

import (
	"context"
	"sync"
	"time"

	"zerostour/internal/domain/audit"
	"zerostour/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Worker buffers audit entries and writes them in batches
type Worker struct {
	repo       repositories.AuditRepository
	entries    chan *audit.Entry
	flushEvery time.Duration
	batchSize  int

	mu      sync.Mutex
	dropped int
}

// NewWorker creates a new audit worker. A nil repo logs entries instead
// of storing them.
func NewWorker(repo repositories.AuditRepository, flushEvery time.Duration, batchSize int) *Worker {
	if flushEvery == 0 {
		flushEvery = 2 * time.Second
	}
	if batchSize == 0 {
		batchSize = 50
	}
	return &Worker{
		repo:       repo,
		entries:    make(chan *audit.Entry, batchSize*4),
		flushEvery: flushEvery,
		batchSize:  batchSize,
	}
}

// Record queues an entry without blocking. When the buffer is full the
// entry is dropped and counted.
func (w *Worker) Record(e *audit.Entry) {
	select {
	case w.entries <- e:
	default:
		w.mu.Lock()
		w.dropped++
		w.mu.Unlock()
		log.Warn().
			Str("resource", e.Resource).
			Str("correlation_id", e.CorrelationID).
			Msg("audit buffer full, entry dropped")
	}
}

// Dropped returns how many entries were lost to a full buffer
func (w *Worker) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// Run writes batches until ctx is cancelled, then flushes what is left
func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("flush_every", w.flushEvery).
		Int("batch_size", w.batchSize).
		Bool("persistent", w.repo != nil).
		Msg("audit worker started")

	ticker := time.NewTicker(w.flushEvery)
	defer ticker.Stop()

	batch := make([]*audit.Entry, 0, w.batchSize)
	for {
		select {
		case <-ctx.Done():
			batch = w.drain(batch)
			// The request context is gone; give the final write its own deadline.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.flush(flushCtx, batch)
			cancel()
			log.Info().Msg("audit worker stopping")
			return
		case e := <-w.entries:
			batch = append(batch, e)
			if len(batch) >= w.batchSize {
				w.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *Worker) drain(batch []*audit.Entry) []*audit.Entry {
	for {
		select {
		case e := <-w.entries:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

func (w *Worker) flush(ctx context.Context, batch []*audit.Entry) {
	if len(batch) == 0 {
		return
	}
	if w.repo == nil {
		for _, e := range batch {
			log.Info().
				Str("resource", e.Resource).
				Str("action", string(e.Action)).
				Int64("record_id", e.RecordID).
				Str("actor", e.Actor).
				Str("correlation_id", e.CorrelationID).
				Msg("audit")
		}
		return
	}

	start := time.Now()
	if err := w.repo.SaveBatch(ctx, batch); err != nil {
		log.Error().Err(err).Int("count", len(batch)).Msg("failed to save audit batch")
		return
	}
	log.Debug().Int("count", len(batch)).Dur("duration", time.Since(start)).Msg("audit batch saved")
}
