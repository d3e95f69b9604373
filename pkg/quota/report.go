package quota

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

// ResourceUsage is the quota state of one resource.
type ResourceUsage struct {
	Resource plans.Resource `json:"resource"`
	Limit    int64          `json:"limit"` // plans.Unlimited for no ceiling
	Used     int64          `json:"used"`
	// Percentage is clamped to [0, 100] for display. It is 0 for unlimited
	// resources and 100 when the limit is zero.
	Percentage float64 `json:"percentage"`
	// Admits tells whether one more unit may be created. It is computed from
	// the raw counts, never from Percentage.
	Admits bool `json:"admits"`
}

// Unlimited reports whether the resource has no ceiling.
func (u ResourceUsage) Unlimited() bool {
	return u.Limit == plans.Unlimited
}

// Report holds the usage of every tracked resource against a plan.
type Report struct {
	Application plans.Application                `json:"application"`
	Tier        plans.Tier                       `json:"tier"`
	Resources   map[plans.Resource]ResourceUsage `json:"resources"`
}

// Get returns the usage of res.
func (r Report) Get(res plans.Resource) (ResourceUsage, bool) {
	u, ok := r.Resources[res]
	return u, ok
}

// Evaluate computes the quota state of every resource for plan and snap.
// The result is advisory: authoritative enforcement happens in an Admitter.
func Evaluate(plan plans.Plan, snap Snapshot) Report {
	r := Report{
		Application: plan.Application,
		Tier:        plan.Tier,
		Resources:   make(map[plans.Resource]ResourceUsage, len(plans.Resources())),
	}
	for _, res := range plans.Resources() {
		r.Resources[res] = usageOf(plan, snap, res, 1)
	}
	return r
}

// Check returns the quota state of res with Admits answering whether amount
// more may be added. For storage amount is in bytes; for counted resources it
// is a number of items.
func Check(plan plans.Plan, snap Snapshot, res plans.Resource, amount int64) (ResourceUsage, error) {
	if !res.Valid() {
		return ResourceUsage{}, errors.Join(plans.ErrUnknownResource, fmt.Errorf("resource %q", res))
	}
	if amount < 0 {
		return ResourceUsage{}, ErrInvalidAmount
	}
	return usageOf(plan, snap, res, amount), nil
}

// CanCreate reports whether one more instance of res fits the plan.
func CanCreate(plan plans.Plan, snap Snapshot, res plans.Resource) bool {
	if !res.Valid() {
		return false
	}
	return usageOf(plan, snap, res, 1).Admits
}

// CanCreateProject reports whether a project may be added.
func CanCreateProject(plan plans.Plan, snap Snapshot) bool {
	return CanCreate(plan, snap, plans.ResourceProjects)
}

// CanInviteUser reports whether a seat may be added.
func CanInviteUser(plan plans.Plan, snap Snapshot) bool {
	return CanCreate(plan, snap, plans.ResourceUsers)
}

// CanUploadFile reports whether a file of sizeMB fits: used + size <= limit.
// Invalid sizes are refused.
func CanUploadFile(plan plans.Plan, snap Snapshot, sizeMB float64) bool {
	size, err := MBToBytes(sizeMB)
	if err != nil {
		return false
	}
	return usageOf(plan, snap, plans.ResourceStorage, size).Admits
}

// CanDowngrade checks whether current usage fits the target plan for every
// resource whose limit decreases. The error lists each resource over the limit.
func CanDowngrade(from, to plans.Plan, snap Snapshot) error {
	cmp := plans.ComparePlans(from, to)
	var errs []error
	for _, res := range plans.Resources() {
		change, ok := cmp.DecreasedLimits[res]
		if !ok {
			continue
		}
		if snap.raw(res) > rawLimit(res, change.To) {
			errs = append(errs, fmt.Errorf("%s: using %d of %d", res, snap.Used(res), change.To))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrDowngradeNotPossible}, errs...)...)
	}
	return nil
}

func usageOf(plan plans.Plan, snap Snapshot, res plans.Resource, amount int64) ResourceUsage {
	limit := plan.Limit(res)
	used := snap.raw(res)
	return ResourceUsage{
		Resource:   res,
		Limit:      limit,
		Used:       snap.Used(res),
		Percentage: percentage(used, rawLimit(res, limit)),
		Admits:     fits(rawLimit(res, limit), used, amount),
	}
}

func percentage(used, limit int64) float64 {
	switch {
	case limit == plans.Unlimited:
		return 0
	case limit <= 0:
		return 100
	}
	p := float64(used) / float64(limit) * 100
	return max(0, min(p, 100))
}
