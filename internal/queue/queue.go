package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"rentnest/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// BatchHandler stores one accepted import batch
type BatchHandler func([]*models.Listing) error

// ListingQueue buffers accepted listing imports for a single worker. A batch
// that Push accepted is handed to the subscribers even when the queue is
// closed before the worker reaches it.
type ListingQueue struct {
	batches  chan []*models.Listing
	drained  chan struct{}
	mu       sync.RWMutex
	closed   bool
	started  bool
	handlers []BatchHandler
	logger   *logrus.Logger
}

func NewListingQueue(capacity int, logger *logrus.Logger) *ListingQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &ListingQueue{
		batches: make(chan []*models.Listing, capacity),
		drained: make(chan struct{}),
		logger:  logger,
	}
}

// Push accepts a batch without blocking. ErrQueueFull means the caller
// should retry later.
func (q *ListingQueue) Push(batch []*models.Listing) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.batches <- batch:
		q.logger.WithFields(logrus.Fields{
			"batch_size": len(batch),
			"pending":    len(q.batches),
		}).Debug("Accepted listing batch")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler. Subscribe before Start.
func (q *ListingQueue) Subscribe(handler BatchHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches the worker. Later calls are no-ops.
func (q *ListingQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.startLocked()
}

func (q *ListingQueue) startLocked() {
	if q.started {
		return
	}
	q.started = true
	go q.run()
}

func (q *ListingQueue) run() {
	defer close(q.drained)
	for batch := range q.batches {
		q.dispatch(batch)
	}
}

func (q *ListingQueue) dispatch(batch []*models.Listing) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	if len(handlers) == 0 {
		q.logger.WithField("batch_size", len(batch)).Warn("No handler for listing batch, dropping it")
		return
	}
	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).WithField("batch_size", len(batch)).Error("Failed to store listing batch")
		}
	}
}

// Close stops accepting batches and waits until every accepted batch has
// been handled, or until ctx is done. A queue that was never started is
// drained by a worker started here.
func (q *ListingQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.batches)
		q.startLocked()
	}
	q.mu.Unlock()

	select {
	case <-q.drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("closed with %d listing batches pending: %w", len(q.batches), ctx.Err())
	}
}

// Pending returns the number of accepted batches not yet picked up
func (q *ListingQueue) Pending() int {
	return len(q.batches)
}

func (q *ListingQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
