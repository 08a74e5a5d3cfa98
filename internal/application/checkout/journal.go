package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

const (
	journalSaveTimeout = 5 * time.Second
	journalBacklogWarn = 64
)

// journalWriter saves attempt snapshots in the order they were queued.
// enqueue never waits on the repository, so a slow database cannot stall
// callers holding the controller lock.
type journalWriter struct {
	repo   domain.AttemptRepository
	logger *slog.Logger

	mu      sync.Mutex
	pending []*domain.Attempt
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func newJournalWriter(repo domain.AttemptRepository, logger *slog.Logger) *journalWriter {
	w := &journalWriter{
		repo:   repo,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *journalWriter) run() {
	defer close(w.done)

	for {
		batch, closed := w.take()
		for _, attempt := range batch {
			w.save(attempt)
		}
		if closed && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-w.wake
		}
	}
}

func (w *journalWriter) take() ([]*domain.Attempt, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := w.pending
	w.pending = nil
	return batch, w.closed
}

func (w *journalWriter) save(attempt *domain.Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), journalSaveTimeout)
	defer cancel()

	if err := w.repo.Save(ctx, attempt); err != nil {
		w.logger.Error("failed to journal attempt",
			"attempt_id", attempt.ID,
			"status", attempt.Status,
			"error", err,
		)
	}
}

func (w *journalWriter) enqueue(attempt *domain.Attempt) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("dropping snapshot queued after close", "attempt_id", attempt.ID)
		return
	}
	w.pending = append(w.pending, attempt.Clone())
	if n := len(w.pending); n > 0 && n%journalBacklogWarn == 0 {
		w.logger.Warn("journal falling behind", "pending", n)
	}
	w.mu.Unlock()
	w.signal()
}

// close flushes queued snapshots and stops the writer.
func (w *journalWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.signal()
	<-w.done
}

func (w *journalWriter) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
