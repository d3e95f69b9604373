package access

import (
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
	"github.com/dmitrymomot/tenantgate/pkg/subscription"
)

// Identity is the authenticated caller. OrganizationID is the caller's home
// organization and may differ from the organization a request targets.
type Identity struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// Authenticated reports whether the identity names a user.
func (i *Identity) Authenticated() bool {
	return i != nil && i.UserID != uuid.Nil
}

// Organization is a tenant. Inactive organizations grant no membership.
type Organization struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	DefaultLocale language.Tag `json:"default_locale"`
	Active        bool         `json:"active"`
}

// Membership binds a user to an organization with exactly one role.
type Membership struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           rbac.Role `json:"role"`
}

// ParseLocale validates a BCP-47 tag. An empty string yields language.Und.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, ErrInvalidLocale
	}
	return tag, nil
}

// Request asks whether the identity may use permission in an organization's application.
type Request struct {
	Identity       *Identity
	OrganizationID uuid.UUID
	Application    plans.Application
	Permission     rbac.Permission
}

// CreateRequest additionally asks whether one more Resource fits the plan.
// SizeMB is the upload size and is only read for storage.
type CreateRequest struct {
	Request
	Resource plans.Resource
	SizeMB   float64
}

// Reason explains a refusal. It is empty when the decision allows the operation.
type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonUnauthenticated       Reason = "UNAUTHENTICATED"
	ReasonNoMembership          Reason = "NO_MEMBERSHIP"
	ReasonForbidden             Reason = "FORBIDDEN"
	ReasonSubscriptionRequired  Reason = "SUBSCRIPTION_REQUIRED"
	ReasonSubscriptionExpired   Reason = "SUBSCRIPTION_EXPIRED"
	ReasonSubscriptionCancelled Reason = "SUBSCRIPTION_CANCELLED"
	ReasonSubscriptionPastDue   Reason = "SUBSCRIPTION_PAST_DUE"
	ReasonQuotaExceeded         Reason = "QUOTA_EXCEEDED"
)

// Decision is the facade's answer. Subscription and Usage are set when the
// evaluation got far enough to read them.
type Decision struct {
	Allowed      bool                          `json:"allowed"`
	Reason       Reason                        `json:"reason,omitempty"`
	Role         rbac.Role                     `json:"role,omitempty"`
	Subscription *subscription.AppSubscription `json:"subscription,omitempty"`
	Usage        *quota.ResourceUsage          `json:"usage,omitempty"`
}

func deny(r Reason) Decision { return Decision{Reason: r} }

// ModuleSet lists the modules the caller can open in an organization.
type ModuleSet struct {
	Role    rbac.Role     `json:"role,omitempty"`
	Modules []rbac.Module `json:"modules"`
	Reason  Reason        `json:"reason,omitempty"`
}

// subscriptionReason maps a lifecycle refusal to a facade reason.
// Unknown applications and unreadable states require a subscription.
func subscriptionReason(r subscription.Reason) Reason {
	switch r {
	case subscription.ReasonExpired:
		return ReasonSubscriptionExpired
	case subscription.ReasonCancelled:
		return ReasonSubscriptionCancelled
	case subscription.ReasonPastDue:
		return ReasonSubscriptionPastDue
	default:
		return ReasonSubscriptionRequired
	}
}
