package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/audit"
)

type failingStorage struct{}

func (failingStorage) Store(context.Context, ...audit.Event) error {
	return errors.New("disk full")
}

type countingStorage struct {
	mu      sync.Mutex
	calls   int
	events  int
	maxSeen int
}

func (s *countingStorage) Store(_ context.Context, events ...audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.events += len(events)
	s.maxSeen = max(s.maxSeen, len(events))
	return nil
}

func (s *countingStorage) snapshot() (calls, events, maxSeen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.events, s.maxSeen
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	t.Run("stamps id and time", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		mem := audit.NewMemoryStorage()
		rec := audit.NewRecorder(mem,
			audit.WithClock(func() time.Time { return now }),
			audit.WithRequestIDExtractor(func(context.Context) string { return "req-1" }),
		)

		require.NoError(t, rec.Record(context.Background(), audit.Event{
			Action:  audit.ActionAuthorize,
			Allowed: false,
			Reason:  "FORBIDDEN",
		}))

		events := mem.Events()
		require.Len(t, events, 1)
		assert.NotEqual(t, uuid.Nil, events[0].ID)
		assert.Equal(t, now, events[0].CreatedAt)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, "FORBIDDEN", events[0].Reason)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		t.Parallel()
		mem := audit.NewMemoryStorage()
		rec := audit.NewRecorder(mem)
		id := uuid.New()

		require.NoError(t, rec.Record(context.Background(), audit.Event{ID: id, Action: audit.ActionCancelled}))
		assert.Equal(t, id, mem.Events()[0].ID)
	})

	t.Run("rejects missing action", func(t *testing.T) {
		t.Parallel()
		rec := audit.NewRecorder(audit.NewMemoryStorage())
		err := rec.Record(context.Background(), audit.Event{})
		assert.ErrorIs(t, err, audit.ErrMissingAction)
	})

	t.Run("wraps storage error", func(t *testing.T) {
		t.Parallel()
		rec := audit.NewRecorder(failingStorage{})
		err := rec.Record(context.Background(), audit.Event{Action: audit.ActionAuthorize})
		assert.ErrorIs(t, err, audit.ErrFailedToStore)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewRecorder(nil) })
	})
}

func TestLogStorage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	s := audit.NewLogStorage(l)

	org := uuid.New()
	err := s.Store(context.Background(), audit.Event{
		ID:             uuid.New(),
		Action:         audit.ActionAuthorizeCreate,
		OrganizationID: org,
		Resource:       "projects",
		Reason:         "QUOTA_EXCEEDED",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"access.authorize_create"`)
	assert.Contains(t, out, org.String())
	assert.Contains(t, out, "QUOTA_EXCEEDED")
	assert.Contains(t, out, `"component":"audit"`)
}

func TestAsyncStorage(t *testing.T) {
	t.Parallel()

	t.Run("close flushes queued events", func(t *testing.T) {
		t.Parallel()
		next := &countingStorage{}
		s := audit.NewAsyncStorage(next, audit.AsyncOptions{
			BatchSize:    10,
			BatchTimeout: time.Hour,
		})

		for range 25 {
			require.NoError(t, s.Store(context.Background(), audit.Event{Action: audit.ActionAuthorize}))
		}
		require.NoError(t, s.Close(context.Background()))

		_, events, maxSeen := next.snapshot()
		assert.Equal(t, 25, events)
		assert.LessOrEqual(t, maxSeen, 10)
	})

	t.Run("flushes partial batch on timeout", func(t *testing.T) {
		t.Parallel()
		next := &countingStorage{}
		s := audit.NewAsyncStorage(next, audit.AsyncOptions{
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
		})
		t.Cleanup(func() { _ = s.Close(context.Background()) })

		require.NoError(t, s.Store(context.Background(), audit.Event{Action: audit.ActionAuthorize}))

		assert.Eventually(t, func() bool {
			_, events, _ := next.snapshot()
			return events == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("store after close fails", func(t *testing.T) {
		t.Parallel()
		s := audit.NewAsyncStorage(audit.NewMemoryStorage(), audit.AsyncOptions{})
		require.NoError(t, s.Close(context.Background()))
		require.NoError(t, s.Close(context.Background()))

		err := s.Store(context.Background(), audit.Event{Action: audit.ActionAuthorize})
		assert.ErrorIs(t, err, audit.ErrStorageNotAvailable)
	})

	t.Run("store racing close loses nothing", func(t *testing.T) {
		t.Parallel()
		next := audit.NewMemoryStorage()
		s := audit.NewAsyncStorage(next, audit.AsyncOptions{BufferSize: 8, BatchSize: 4})

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					err := s.Store(context.Background(), audit.Event{Action: audit.ActionAuthorize})
					if errors.Is(err, audit.ErrStorageNotAvailable) {
						return
					}
					if assert.NoError(t, err) {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}
			}()
		}
		time.Sleep(time.Millisecond)
		require.NoError(t, s.Close(context.Background()))
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, next.Events(), accepted)
	})

	t.Run("batch failure is logged", func(t *testing.T) {
		t.Parallel()
		var buf safeBuffer
		s := audit.NewAsyncStorage(failingStorage{}, audit.AsyncOptions{
			Logger: slog.New(slog.NewTextHandler(&buf, nil)),
		})

		require.NoError(t, s.Store(context.Background(), audit.Event{Action: audit.ActionAuthorize}))
		require.NoError(t, s.Close(context.Background()))
		assert.Contains(t, buf.String(), "audit batch dropped")
	})
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
