package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/tenantgate/pkg/logger"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, events ...Event) error
}

// LogStorage writes events as structured log records.
type LogStorage struct {
	log *slog.Logger
}

// NewLogStorage returns a Storage writing to l at info level.
func NewLogStorage(l *slog.Logger) *LogStorage {
	if l == nil {
		panic("audit: logger cannot be nil")
	}
	return &LogStorage{log: l.With(logger.Component("audit"))}
}

func (s *LogStorage) Store(ctx context.Context, events ...Event) error {
	for _, e := range events {
		s.log.InfoContext(ctx, string(e.Action),
			slog.String("audit_id", e.ID.String()),
			logger.OrganizationID(e.OrganizationID),
			logger.UserID(e.UserID),
			logger.Application(e.Application),
			logger.Permission(e.Permission),
			logger.Resource(e.Resource),
			slog.Bool("allowed", e.Allowed),
			logger.Reason(e.Reason),
			logger.RequestID(e.RequestID),
		)
	}
	return nil
}

// MemoryStorage keeps events in memory. Intended for tests and local runs.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(_ context.Context, events ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Events returns a copy of the stored events in insertion order.
func (s *MemoryStorage) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}
