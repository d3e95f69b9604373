package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// Admission describes a resource creation that must stay within a ceiling.
type Admission struct {
	OrganizationID uuid.UUID
	Resource       plans.Resource
	// Amount is in bytes for storage and in items otherwise. Zero means one.
	Amount int64
	// Limit is the plan ceiling in plan units (MB for storage).
	Limit int64
}

func (a Admission) amount() int64 {
	if a.Amount == 0 {
		return 1
	}
	return a.Amount
}

// Admitter is the authoritative quota gate. Admit re-counts usage and runs
// apply only if the admission still fits, with no other admission for the
// same organization interleaving between the count and apply.
// It returns ErrQuotaExceeded when the ceiling would be crossed.
type Admitter interface {
	Admit(ctx context.Context, a Admission, apply func(ctx context.Context) error) error
}

// MemoryAdmitter serializes admissions per organization inside one process.
// It is suitable when every writer of the counted resources goes through it.
type MemoryAdmitter struct {
	counter Counter
	locks   sync.Map // uuid.UUID -> *sync.Mutex
}

// NewMemoryAdmitter creates a MemoryAdmitter. Panics if counter is nil.
func NewMemoryAdmitter(counter Counter) *MemoryAdmitter {
	if counter == nil {
		panic("quota: counter is required")
	}
	return &MemoryAdmitter{counter: counter}
}

func (m *MemoryAdmitter) Admit(ctx context.Context, a Admission, apply func(ctx context.Context) error) error {
	if apply == nil {
		return errors.New("quota: apply func is required")
	}
	if a.Amount < 0 {
		return ErrInvalidAmount
	}

	mu, _ := m.locks.LoadOrStore(a.OrganizationID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Limit != plans.Unlimited {
		used, err := m.counter.Count(ctx, a.OrganizationID, a.Resource)
		if err != nil {
			return err
		}
		if !fits(rawLimit(a.Resource, a.Limit), used, a.amount()) {
			return errors.Join(ErrQuotaExceeded,
				fmt.Errorf("%s: %d used, limit %d", a.Resource, used, a.Limit))
		}
	}
	return apply(ctx)
}
