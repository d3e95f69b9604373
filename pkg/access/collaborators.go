package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/audit"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// MembershipResolver returns the user's role in an organization.
// It returns ErrMembershipNotFound when there is none.
type MembershipResolver interface {
	RoleFor(ctx context.Context, userID, orgID uuid.UUID) (rbac.Role, error)
}

// MembershipResolverFunc adapts a function to MembershipResolver.
type MembershipResolverFunc func(ctx context.Context, userID, orgID uuid.UUID) (rbac.Role, error)

func (f MembershipResolverFunc) RoleFor(ctx context.Context, userID, orgID uuid.UUID) (rbac.Role, error) {
	return f(ctx, userID, orgID)
}

// SubscriptionChecker is satisfied by *subscription.Manager.
type SubscriptionChecker interface {
	CheckAccess(ctx context.Context, orgID uuid.UUID, app plans.Application) (subscription.AccessResult, error)
}

// QuotaChecker is satisfied by *quota.Engine.
type QuotaChecker interface {
	Check(ctx context.Context, orgID uuid.UUID, app plans.Application, tier plans.Tier, res plans.Resource, amount int64) (quota.ResourceUsage, error)
}

// Auditor is satisfied by *audit.Recorder.
type Auditor interface {
	Record(ctx context.Context, e audit.Event) error
}
