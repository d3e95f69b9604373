// Package quota enforces plan resource ceilings against live usage.
//
// It has two layers. Evaluate, Check and the Can* predicates are advisory:
// they compare a usage Snapshot with a plan and are meant for UI hints and
// early rejection. Between such a check and the write that creates a resource
// another request may create one too, so the advisory answer alone cannot
// keep an organization under its ceiling.
//
// The Admitter interface is the authoritative layer. Admit re-counts usage and
// performs the write as one serialized step per organization:
//
//	err := admitter.Admit(ctx, quota.Admission{
//		OrganizationID: orgID,
//		Resource:       plans.ResourceProjects,
//		Limit:          plan.Limit(plans.ResourceProjects),
//	}, func(ctx context.Context) error {
//		return projects.Insert(ctx, p)
//	})
//	if errors.Is(err, quota.ErrQuotaExceeded) {
//		// show upgrade prompt
//	}
//
// MemoryAdmitter serializes with a per-organization mutex; the Postgres adapter
// locks the organization row inside a transaction.
//
// Storage limits are expressed in MB while usage is counted in bytes; all
// comparisons happen in bytes.
package quota
