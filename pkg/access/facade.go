package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/audit"
	"github.com/dmitrymomot/tenantgate/pkg/logger"
	"github.com/dmitrymomot/tenantgate/pkg/metrics"
	"github.com/dmitrymomot/tenantgate/pkg/plans"
	"github.com/dmitrymomot/tenantgate/pkg/quota"
	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

// Facade combines membership, permissions, subscription state and quotas
// into one decision. It holds no mutable state and is safe for concurrent use.
type Facade struct {
	members MembershipResolver
	subs    SubscriptionChecker
	quotas  QuotaChecker
	perms   *rbac.Resolver
	auditor Auditor
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithResolver replaces the default permission matrix.
func WithResolver(r *rbac.Resolver) Option {
	return func(f *Facade) {
		if r != nil {
			f.perms = r
		}
	}
}

// WithAuditor records every decision.
func WithAuditor(a Auditor) Option {
	return func(f *Facade) {
		f.auditor = a
	}
}

// WithMetrics counts every decision.
func WithMetrics(c *metrics.Collector) Option {
	return func(f *Facade) {
		f.metrics = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Facade. Panics if a collaborator is nil.
func New(members MembershipResolver, subs SubscriptionChecker, quotas QuotaChecker, opts ...Option) *Facade {
	if members == nil {
		panic("access: membership resolver cannot be nil")
	}
	if subs == nil {
		panic("access: subscription checker cannot be nil")
	}
	if quotas == nil {
		panic("access: quota checker cannot be nil")
	}

	f := &Facade{
		members: members,
		subs:    subs,
		quotas:  quotas,
		perms:   rbac.Default(),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(logger.Component("access"))
	return f
}

// Authorize decides whether the identity may use req.Permission in the
// organization's application. Checks run in a fixed order and the first
// failing one names the reason: identity, membership, permission, subscription.
// Business refusals are returned as a Decision; errors mean a collaborator failed.
func (f *Facade) Authorize(ctx context.Context, req Request) (Decision, error) {
	start := time.Now()
	d, err := f.authorize(ctx, req)
	f.observe(ctx, audit.ActionAuthorize, "authorize", req, "", d, err, start)
	return d, err
}

// AuthorizeCreate runs Authorize and then checks that one more req.Resource
// fits the subscribed plan. For storage the upload of req.SizeMB is checked.
func (f *Facade) AuthorizeCreate(ctx context.Context, req CreateRequest) (Decision, error) {
	start := time.Now()
	d, err := f.authorizeCreate(ctx, req)
	f.observe(ctx, audit.ActionAuthorizeCreate, "authorize_create", req.Request, req.Resource, d, err, start)
	if err == nil && d.Reason == ReasonQuotaExceeded {
		f.metrics.RecordQuotaRefusal(string(req.Application), string(req.Resource))
	}
	return d, err
}

// ModuleAccess decides whether the identity can open module in the organization.
func (f *Facade) ModuleAccess(ctx context.Context, id *Identity, orgID uuid.UUID, module rbac.Module) (Decision, error) {
	start := time.Now()
	req := Request{Identity: id, OrganizationID: orgID}

	d, role, err := f.membership(ctx, req)
	if err == nil && d.Reason == ReasonNone {
		d = Decision{Allowed: f.perms.CanAccessModule(role, module), Role: role}
		if !d.Allowed {
			d.Reason = ReasonForbidden
		}
	}
	f.observe(ctx, audit.ActionModuleAccess, "module", req, plans.Resource(""), d, err, start, slog.String("module", string(module)))
	return d, err
}

// AccessibleModules lists the modules the identity can open in the organization.
// Modules is empty when the membership check refuses.
func (f *Facade) AccessibleModules(ctx context.Context, id *Identity, orgID uuid.UUID) (ModuleSet, error) {
	d, role, err := f.membership(ctx, Request{Identity: id, OrganizationID: orgID})
	if err != nil {
		return ModuleSet{}, err
	}
	if d.Reason != ReasonNone {
		return ModuleSet{Modules: []rbac.Module{}, Reason: d.Reason}, nil
	}
	return ModuleSet{Role: role, Modules: f.perms.AccessibleModules(role)}, nil
}

func (f *Facade) authorize(ctx context.Context, req Request) (Decision, error) {
	d, role, err := f.membership(ctx, req)
	if err != nil || d.Reason != ReasonNone {
		return d, err
	}

	if !f.perms.HasPermission(role, req.Permission) {
		return Decision{Reason: ReasonForbidden, Role: role}, nil
	}

	res, err := f.subs.CheckAccess(ctx, req.OrganizationID, req.Application)
	if err != nil {
		return Decision{}, errors.Join(ErrSubscriptionLookup, err)
	}

	d = Decision{Role: role, Subscription: res.Subscription}
	if !res.Granted {
		d.Reason = subscriptionReason(res.Reason)
		return d, nil
	}
	d.Allowed = true
	return d, nil
}

func (f *Facade) authorizeCreate(ctx context.Context, req CreateRequest) (Decision, error) {
	d, err := f.authorize(ctx, req.Request)
	if err != nil || !d.Allowed {
		return d, err
	}

	if !req.Resource.Valid() {
		return Decision{}, errors.Join(ErrInvalidRequest, plans.ErrUnknownResource, fmt.Errorf("resource %q", req.Resource))
	}
	amount := int64(1)
	if req.Resource == plans.ResourceStorage {
		b, err := quota.MBToBytes(req.SizeMB)
		if err != nil {
			return Decision{}, errors.Join(ErrInvalidRequest, err)
		}
		amount = b
	}
	if d.Subscription == nil {
		return Decision{Reason: ReasonSubscriptionRequired, Role: d.Role}, nil
	}

	usage, err := f.quotas.Check(ctx, req.OrganizationID, req.Application, d.Subscription.Tier, req.Resource, amount)
	if err != nil {
		return Decision{}, errors.Join(ErrUsageLookup, err)
	}
	d.Usage = &usage
	if !usage.Admits {
		d.Allowed = false
		d.Reason = ReasonQuotaExceeded
	}
	return d, nil
}

// membership resolves the caller's role. A non-empty Reason in the returned
// decision means the caller was refused before any permission check.
func (f *Facade) membership(ctx context.Context, req Request) (Decision, rbac.Role, error) {
	if !req.Identity.Authenticated() {
		return deny(ReasonUnauthenticated), "", nil
	}
	role, err := f.members.RoleFor(ctx, req.Identity.UserID, req.OrganizationID)
	if errors.Is(err, ErrMembershipNotFound) {
		return deny(ReasonNoMembership), "", nil
	}
	if err != nil {
		return Decision{}, "", errors.Join(ErrMembershipLookup, err)
	}
	return Decision{}, role, nil
}

func (f *Facade) observe(ctx context.Context, action audit.Action, op string, req Request, res plans.Resource, d Decision, err error, start time.Time, extra ...slog.Attr) {
	var userID uuid.UUID
	if req.Identity != nil {
		userID = req.Identity.UserID
	}

	attrs := append([]slog.Attr{
		logger.OrganizationID(req.OrganizationID),
		logger.UserID(userID),
		logger.Application(string(req.Application)),
		logger.Permission(string(req.Permission)),
		logger.Reason(string(d.Reason)),
		slog.Bool("allowed", d.Allowed),
		logger.Duration(time.Since(start)),
	}, extra...)

	if err != nil {
		f.logger.LogAttrs(ctx, slog.LevelError, "access decision failed", append(attrs, logger.Error(err))...)
		return
	}
	f.logger.LogAttrs(ctx, slog.LevelDebug, "access decided", attrs...)
	f.metrics.RecordDecision(string(req.Application), d.Allowed, string(d.Reason), time.Since(start), op)

	if f.auditor == nil {
		return
	}
	e := audit.Event{
		Action:         action,
		OrganizationID: req.OrganizationID,
		UserID:         userID,
		Application:    string(req.Application),
		Permission:     string(req.Permission),
		Resource:       string(res),
		Allowed:        d.Allowed,
		Reason:         string(d.Reason),
	}
	if len(extra) > 0 {
		e.Metadata = make(map[string]any, len(extra))
		for _, a := range extra {
			e.Metadata[a.Key] = a.Value.Any()
		}
	}
	if aerr := f.auditor.Record(ctx, e); aerr != nil {
		f.logger.WarnContext(ctx, "failed to audit access decision", logger.Error(aerr), logger.Reason(string(d.Reason)))
	}
}
