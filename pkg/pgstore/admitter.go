package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
)

// Admitter is the authoritative quota gate backed by Postgres. It locks the
// organization row, counts inside the same transaction and runs apply there,
// so concurrent admissions for one organization are serialized across processes.
type Admitter struct {
	pool    *pgxpool.Pool
	counter quota.Counter
}

// NewAdmitter returns an Admitter counting through counter, which must read
// its connection with pg.Conn so it joins the admission transaction.
func NewAdmitter(pool *pgxpool.Pool, counter quota.Counter) *Admitter {
	if pool == nil {
		panic("pgstore: pool cannot be nil")
	}
	if counter == nil {
		panic("pgstore: counter cannot be nil")
	}
	return &Admitter{pool: pool, counter: counter}
}

func (a *Admitter) Admit(ctx context.Context, adm quota.Admission, apply func(ctx context.Context) error) error {
	if apply == nil {
		return errors.New("pgstore: apply func is required")
	}
	if adm.Amount < 0 {
		return quota.ErrInvalidAmount
	}
	amount := adm.Amount
	if amount == 0 {
		amount = 1
	}

	return pg.InTx(ctx, a.pool, func(ctx context.Context, tx pgx.Tx) error {
		var locked bool
		err := tx.QueryRow(ctx, `SELECT TRUE FROM organizations WHERE id = $1 FOR UPDATE`, adm.OrganizationID).Scan(&locked)
		if pg.IsNotFoundError(err) {
			return ErrOrganizationNotFound
		}
		if err != nil {
			return errors.Join(ErrQueryFailed, err)
		}

		if adm.Limit != plans.Unlimited {
			used, err := a.counter.Count(ctx, adm.OrganizationID, adm.Resource)
			if err != nil {
				return err
			}
			if !quota.Fits(adm.Resource, adm.Limit, used, amount) {
				return errors.Join(quota.ErrQuotaExceeded,
					fmt.Errorf("%s: %d used, limit %d", adm.Resource, used, adm.Limit))
			}
		}
		return apply(ctx)
	})
}
