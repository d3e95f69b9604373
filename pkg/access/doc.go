// Package access is the single entry point for entitlement decisions.
//
// A Facade answers "may this user do this in this organization's application?"
// by running, in order: identity, membership, permission, subscription and,
// for creations, quota. The first failing step names the Reason:
//
//	d, err := facade.AuthorizeCreate(ctx, access.CreateRequest{
//		Request: access.Request{
//			Identity:       id,
//			OrganizationID: orgID,
//			Application:    plans.ApplicationRegie,
//			Permission:     rbac.PermCreateProjects,
//		},
//		Resource: plans.ResourceProjects,
//	})
//	if err != nil {
//		// a store or counter failed; not a refusal
//	}
//	if !d.Allowed {
//		// d.Reason is one of UNAUTHENTICATED, NO_MEMBERSHIP, FORBIDDEN,
//		// SUBSCRIPTION_*, QUOTA_EXCEEDED
//	}
//
// Quota answers here are advisory. The creation itself must go through a
// quota.Admitter so concurrent requests cannot overshoot a limit.
package access
