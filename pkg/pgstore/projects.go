package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
)

// Project is a counted resource owned by an organization.
type Project struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// Projects creates projects through an Admitter so plan limits hold under concurrency.
type Projects struct {
	pool     *pgxpool.Pool
	admitter quota.Admitter
}

func NewProjects(pool *pgxpool.Pool, admitter quota.Admitter) *Projects {
	if pool == nil || admitter == nil {
		panic("pgstore: pool and admitter are required")
	}
	return &Projects{pool: pool, admitter: admitter}
}

// Create inserts a project if the organization is below limit projects.
// It returns quota.ErrQuotaExceeded when the limit is reached.
func (p *Projects) Create(ctx context.Context, orgID uuid.UUID, name string, limit int64) (Project, error) {
	prj := Project{ID: uuid.New(), OrganizationID: orgID, Name: name}
	adm := quota.Admission{OrganizationID: orgID, Resource: plans.ResourceProjects, Limit: limit}

	err := p.admitter.Admit(ctx, adm, func(ctx context.Context) error {
		const q = `INSERT INTO projects (id, organization_id, name) VALUES ($1, $2, $3) RETURNING created_at`
		if err := pg.Conn(ctx, p.pool).QueryRow(ctx, q, prj.ID, orgID, name).Scan(&prj.CreatedAt); err != nil {
			return errors.Join(ErrQueryFailed, err)
		}
		return nil
	})
	if err != nil {
		return Project{}, err
	}
	return prj, nil
}
