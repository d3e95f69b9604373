package plans

import (
	"errors"
	"fmt"
	"slices"
)

type planKey struct {
	app  Application
	tier Tier
}

// Catalog is an immutable, versioned table of plans keyed by (application, tier).
// It is safe for concurrent use because nothing mutates it after construction.
type Catalog struct {
	version string
	plans   map[planKey]Plan
}

// NewCatalog validates the given plans and builds a catalog from them.
func NewCatalog(version string, plans ...Plan) (*Catalog, error) {
	c := &Catalog{
		version: version,
		plans:   make(map[planKey]Plan, len(plans)),
	}

	for _, p := range plans {
		if err := validatePlan(p); err != nil {
			return nil, err
		}
		k := planKey{p.Application, p.Tier}
		if _, exists := c.plans[k]; exists {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan %s/%s", p.Application, p.Tier))
		}
		c.plans[k] = p.clone()
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on invalid input.
// Intended for compiled-in catalogs where a bad table is a programming error.
func MustCatalog(version string, plans ...Plan) *Catalog {
	c, err := NewCatalog(version, plans...)
	if err != nil {
		panic(fmt.Sprintf("plans: %v", err))
	}
	return c
}

// Version identifies the catalog deployment.
func (c *Catalog) Version() string {
	return c.version
}

// Lookup returns the plan for the given application and tier.
func (c *Catalog) Lookup(app Application, tier Tier) (Plan, error) {
	if !app.Valid() {
		return Plan{}, ErrUnknownApplication
	}
	if !tier.Valid() {
		return Plan{}, ErrUnknownTier
	}
	p, ok := c.plans[planKey{app, tier}]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p.clone(), nil
}

// ForApplication returns the plans offered for app, cheapest tier first.
func (c *Catalog) ForApplication(app Application) []Plan {
	out := make([]Plan, 0, len(Tiers()))
	for _, tier := range Tiers() {
		if p, ok := c.plans[planKey{app, tier}]; ok {
			out = append(out, p.clone())
		}
	}
	return out
}

// All returns every plan grouped by application in catalog order.
func (c *Catalog) All() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, app := range Applications() {
		out = append(out, c.ForApplication(app)...)
	}
	return out
}

func validatePlan(p Plan) error {
	if !p.Application.Valid() {
		return errors.Join(ErrInvalidPlanConfiguration, ErrUnknownApplication,
			fmt.Errorf("application %q", p.Application))
	}
	if !p.Tier.Valid() {
		return errors.Join(ErrInvalidPlanConfiguration, ErrUnknownTier,
			fmt.Errorf("tier %q", p.Tier))
	}
	if !p.Price.Custom {
		if p.Price.Amount < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s/%s has negative price", p.Application, p.Tier))
		}
		if p.Price.Currency == "" {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s/%s has no currency", p.Application, p.Tier))
		}
	}
	for res, limit := range p.Limits {
		if !res.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration, ErrUnknownResource,
				fmt.Errorf("plan %s/%s resource %q", p.Application, p.Tier, res))
		}
		if limit < Unlimited {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s/%s resource %s has invalid limit %d", p.Application, p.Tier, res, limit))
		}
	}
	if slices.ContainsFunc(p.Features, func(f Feature) bool { return f == "" }) {
		return errors.Join(ErrInvalidPlanConfiguration,
			fmt.Errorf("plan %s/%s has an empty feature", p.Application, p.Tier))
	}
	return nil
}
