package processor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rentnest/server/config"
	"rentnest/server/internal/database"
	"rentnest/server/internal/models"
	"rentnest/server/internal/queue"
)

// Transactor is the part of *gorm.DB the processor needs
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor writes queued listing batches to the database
type BatchProcessor struct {
	db          Transactor
	logger      *logrus.Logger
	config      *config.Config
	queue       *queue.ListingQueue
	afterCommit []func([]*models.Listing)
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.ListingQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnCommit registers fn to run after each batch is stored
func (p *BatchProcessor) OnCommit(fn func([]*models.Listing)) {
	p.afterCommit = append(p.afterCommit, fn)
}

// Start subscribes the processor to its queue
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
}

// Stop aborts pending retries
func (p *BatchProcessor) Stop() {
	p.cancel()
}

// processBatch stores a single batch in a transaction, retrying on failure
func (p *BatchProcessor) processBatch(batch []*models.Listing) error {
	retries := p.config.BatchProcessing.MaxRetries
	delay := time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, retries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("batch processing stopped: %w", p.ctx.Err())
			case <-time.After(delay):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertListings(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert listings batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d listings", len(batch))
			for _, fn := range p.afterCommit {
				fn(batch)
			}
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", retries+1, err)
}
