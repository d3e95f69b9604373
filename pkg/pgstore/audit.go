package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/audit"
)

// AuditStore writes audit events with COPY. It implements audit.Storage and
// is meant to sit behind audit.AsyncStorage.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	if pool == nil {
		panic("pgstore: pool cannot be nil")
	}
	return &AuditStore{pool: pool}
}

var auditColumns = []string{
	"id", "created_at", "action", "organization_id", "user_id", "application",
	"permission", "resource", "allowed", "reason", "request_id", "metadata",
}

func (s *AuditStore) Store(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{
			e.ID, e.CreatedAt, string(e.Action), nullUUID(e.OrganizationID), nullUUID(e.UserID),
			e.Application, e.Permission, e.Resource, e.Allowed, e.Reason, e.RequestID, e.Metadata,
		}
	}

	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{"audit_events"}, auditColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
