package queue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentnest/server/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestListingQueue_Push(t *testing.T) {
	q := NewListingQueue(2, quietLogger())
	assert.False(t, q.IsClosed())

	batch := []*models.Listing{{ID: "L1"}}
	assert.NoError(t, q.Push(batch))
	assert.Equal(t, 1, q.Pending())

	assert.NoError(t, q.Push(batch))
	assert.ErrorIs(t, q.Push(batch), ErrQueueFull)

	require.NoError(t, q.Close(context.Background()))
	assert.True(t, q.IsClosed())
	assert.ErrorIs(t, q.Push(batch), ErrQueueClosed)
}

func TestListingQueue_Subscribe(t *testing.T) {
	q := NewListingQueue(10, quietLogger())

	var processed []*models.Listing
	var mu sync.Mutex
	q.Subscribe(func(listings []*models.Listing) error {
		mu.Lock()
		processed = append(processed, listings...)
		mu.Unlock()
		return nil
	})
	q.Start()
	q.Start()
	defer q.Close(context.Background())

	assert.NoError(t, q.Push([]*models.Listing{{ID: "L1"}, {ID: "L2"}}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(processed) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "L1", processed[0].ID)
	assert.Equal(t, "L2", processed[1].ID)
	mu.Unlock()
}

func TestListingQueue_CloseHandlesAcceptedBatches(t *testing.T) {
	q := NewListingQueue(5, quietLogger())

	release := make(chan struct{})
	busy := make(chan struct{}, 1)
	var mu sync.Mutex
	var handled []string
	q.Subscribe(func(listings []*models.Listing) error {
		select {
		case busy <- struct{}{}:
		default:
		}
		<-release
		mu.Lock()
		handled = append(handled, listings[0].ID)
		mu.Unlock()
		return nil
	})
	q.Start()

	for _, id := range []string{"B1", "B2", "B3"} {
		require.NoError(t, q.Push([]*models.Listing{{ID: id}}))
	}

	// Close while the worker is still inside the first batch
	<-busy
	closed := make(chan error, 1)
	go func() { closed <- q.Close(context.Background()) }()

	assert.Eventually(t, q.IsClosed, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, q.Push([]*models.Listing{{ID: "B4"}}), ErrQueueClosed)

	close(release)
	require.NoError(t, <-closed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"B1", "B2", "B3"}, handled)
}

func TestListingQueue_CloseWithoutStart(t *testing.T) {
	q := NewListingQueue(5, quietLogger())

	var handled int
	q.Subscribe(func(listings []*models.Listing) error {
		handled++
		return nil
	})
	require.NoError(t, q.Push([]*models.Listing{{ID: "L1"}}))
	require.NoError(t, q.Push([]*models.Listing{{ID: "L2"}}))

	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, 2, handled)

	// Second close is a no-op
	assert.NoError(t, q.Close(context.Background()))
}

func TestListingQueue_CloseDeadline(t *testing.T) {
	q := NewListingQueue(5, quietLogger())

	release := make(chan struct{})
	defer close(release)
	q.Subscribe(func(listings []*models.Listing) error {
		<-release
		return nil
	})
	q.Start()
	require.NoError(t, q.Push([]*models.Listing{{ID: "L1"}}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Close(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err)
}

func TestListingQueue_AllHandlersReceiveBatch(t *testing.T) {
	q := NewListingQueue(10, quietLogger())

	var mu sync.Mutex
	processedBatches := 0
	failures := 0

	for i := 0; i < 3; i++ {
		fail := i == 1
		q.Subscribe(func(listings []*models.Listing) error {
			mu.Lock()
			defer mu.Unlock()
			processedBatches++
			if fail {
				failures++
				return errors.New("store failed")
			}
			return nil
		})
	}
	q.Start()

	assert.NoError(t, q.Push([]*models.Listing{{ID: "L1"}}))
	require.NoError(t, q.Close(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, processedBatches, "a failing handler does not stop the others")
	assert.Equal(t, 1, failures)
}
