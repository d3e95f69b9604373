package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
)

// AsyncOptions tunes batching of an AsyncStorage.
type AsyncOptions struct {
	BufferSize     int           // events queued before Store writes synchronously
	BatchSize      int           // events per storage call
	BatchTimeout   time.Duration // max wait for a partial batch
	StorageTimeout time.Duration // per-batch storage deadline
	Logger         *slog.Logger  // receives batch failures
}

// AsyncStorage queues events and writes them to the next Storage in batches.
// Store returns as soon as the event is queued; batch failures are logged.
type AsyncStorage struct {
	next    Storage
	opts    AsyncOptions
	queue   chan Event
	done    chan struct{}
	closing sync.Once
	wg      sync.WaitGroup

	// held for reading while enqueuing; done closes under the write lock
	mu     sync.RWMutex
	closed bool
}

// NewAsyncStorage starts the batching worker. Call Close on shutdown to flush.
func NewAsyncStorage(next Storage, opts AsyncOptions) *AsyncStorage {
	if next == nil {
		panic("audit: storage cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	s := &AsyncStorage{
		next:  next,
		opts:  opts,
		queue: make(chan Event, opts.BufferSize),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Store queues events. When the queue is full the events are written
// synchronously so none are dropped.
func (s *AsyncStorage) Store(ctx context.Context, events ...Event) error {
	rest, err := s.enqueue(events)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return s.next.Store(ctx, rest...)
	}
	return nil
}

// enqueue returns the events that did not fit in the queue.
func (s *AsyncStorage) enqueue(events []Event) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStorageNotAvailable
	}

	for i, e := range events {
		select {
		case s.queue <- e:
		default:
			return events[i:], nil
		}
	}
	return nil, nil
}

func (s *AsyncStorage) run() {
	defer s.wg.Done()

	batch := make([]Event, 0, s.opts.BatchSize)
	ticker := time.NewTicker(s.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// request contexts are long gone by now
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.StorageTimeout)
		defer cancel()
		if err := s.next.Store(ctx, batch...); err != nil {
			s.opts.Logger.Error("audit batch dropped",
				logger.Component("audit"),
				slog.Int("events", len(batch)),
				logger.Error(errors.Join(ErrFailedToStore, err)),
			)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= s.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting events and flushes the queue, waiting at most until ctx is done.
func (s *AsyncStorage) Close(ctx context.Context) error {
	s.closing.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.done)
		s.mu.Unlock()
	})

	flushed := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
