package subscription

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// Store persists subscription records. Each (organization, application) pair
// has one record, so Save replaces whatever was stored for the pair.
type Store interface {
	// Get returns ErrSubscriptionNotFound if no record exists.
	Get(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error)
	Save(ctx context.Context, sub *AppSubscription) error
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]AppSubscription, error)
	// List returns every record. Used by reconciliation.
	List(ctx context.Context) ([]AppSubscription, error)
	// MarkExpired sets the stored status to expired only if the record was
	// last updated at seen. Reports whether a record was changed.
	MarkExpired(ctx context.Context, orgID uuid.UUID, app plans.Application, seen, at time.Time) (bool, error)
}

type storeKey struct {
	org uuid.UUID
	app plans.Application
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[storeKey]*AppSubscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[storeKey]*AppSubscription)}
}

func (s *MemoryStore) Get(ctx context.Context, orgID uuid.UUID, app plans.Application) (*AppSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.records[storeKey{orgID, app}]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return sub.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, sub *AppSubscription) error {
	if sub == nil {
		return ErrInvalidPlan
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[storeKey{sub.OrganizationID, sub.Application}] = sub.Clone()
	return nil
}

func (s *MemoryStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]AppSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AppSubscription, 0)
	for _, app := range plans.Applications() {
		if sub, ok := s.records[storeKey{orgID, app}]; ok {
			out = append(out, *sub.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]AppSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AppSubscription, 0, len(s.records))
	for _, sub := range s.records {
		out = append(out, *sub.Clone())
	}
	slices.SortFunc(out, func(a, b AppSubscription) int {
		if c := slices.Compare(a.OrganizationID[:], b.OrganizationID[:]); c != 0 {
			return c
		}
		return strings.Compare(string(a.Application), string(b.Application))
	})
	return out, nil
}

func (s *MemoryStore) MarkExpired(ctx context.Context, orgID uuid.UUID, app plans.Application, seen, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey{orgID, app}]
	if !ok || !rec.UpdatedAt.Equal(seen) {
		return false, nil
	}
	next := rec.Clone()
	next.Status = StatusExpired
	next.UpdatedAt = at
	s.records[storeKey{orgID, app}] = next
	return true, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
