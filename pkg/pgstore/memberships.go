package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantgate/pkg/access"
	"github.com/dmitrymomot/tenantgate/pkg/pg"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

// Directory reads organizations and memberships. It implements
// access.MembershipResolver.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	if pool == nil {
		panic("pgstore: pool cannot be nil")
	}
	return &Directory{pool: pool}
}

// RoleFor returns the user's role in an active organization.
// Inactive organizations yield access.ErrMembershipNotFound.
func (d *Directory) RoleFor(ctx context.Context, userID, orgID uuid.UUID) (rbac.Role, error) {
	const q = `SELECT m.role FROM memberships m
		JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1 AND m.organization_id = $2 AND o.active`

	var role string
	err := pg.Conn(ctx, d.pool).QueryRow(ctx, q, userID, orgID).Scan(&role)
	if pg.IsNotFoundError(err) {
		return "", access.ErrMembershipNotFound
	}
	if err != nil {
		return "", errors.Join(ErrQueryFailed, err)
	}
	return rbac.Role(role), nil
}

// Organization returns the organization by ID.
func (d *Directory) Organization(ctx context.Context, id uuid.UUID) (access.Organization, error) {
	const q = `SELECT id, name, default_locale, active FROM organizations WHERE id = $1`

	var (
		org    access.Organization
		locale string
	)
	err := pg.Conn(ctx, d.pool).QueryRow(ctx, q, id).Scan(&org.ID, &org.Name, &locale, &org.Active)
	if pg.IsNotFoundError(err) {
		return access.Organization{}, ErrOrganizationNotFound
	}
	if err != nil {
		return access.Organization{}, errors.Join(ErrQueryFailed, err)
	}
	tag, err := access.ParseLocale(locale)
	if err != nil {
		return access.Organization{}, err
	}
	org.DefaultLocale = tag
	return org, nil
}

// CreateOrganization inserts an organization. The locale is stored in canonical form.
func (d *Directory) CreateOrganization(ctx context.Context, org access.Organization) (access.Organization, error) {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	const q = `INSERT INTO organizations (id, name, default_locale, active) VALUES ($1, $2, $3, $4)`
	if _, err := pg.Conn(ctx, d.pool).Exec(ctx, q, org.ID, org.Name, org.DefaultLocale.String(), org.Active); err != nil {
		return access.Organization{}, errors.Join(ErrQueryFailed, err)
	}
	return org, nil
}

// SetMembership assigns the user's role, replacing any previous one.
func (d *Directory) SetMembership(ctx context.Context, m access.Membership) error {
	if !m.Role.Valid() {
		return ErrInvalidRole
	}
	const q = `INSERT INTO memberships (user_id, organization_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`
	if _, err := pg.Conn(ctx, d.pool).Exec(ctx, q, m.UserID, m.OrganizationID, string(m.Role)); err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return ErrOrganizationNotFound
		}
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
