package plans

import "slices"

// Money represents a monetary amount in the smallest currency unit.
// A Custom price has no fixed amount and is negotiated per contract.
type Money struct {
	Amount   int64  `json:"amount"`   // smallest currency unit (centimes for CHF)
	Currency string `json:"currency"` // ISO 4217 currency code
	Custom   bool   `json:"custom,omitempty"`
}

// CustomPrice is the sentinel price for tiers sold on quote.
func CustomPrice() Money {
	return Money{Custom: true}
}

// Plan describes one (application, tier) pair and its resource/feature constraints.
type Plan struct {
	Application Application        `json:"application"`
	Tier        Tier               `json:"tier"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Price       Money              `json:"price"`
	Features    []Feature          `json:"features"`
	Limits      map[Resource]int64 `json:"limits"` // -1 represents unlimited
}

// Limit returns the ceiling for res. Resources the plan does not list have a
// ceiling of zero: nothing may be created.
func (p Plan) Limit(res Resource) int64 {
	limit, ok := p.Limits[res]
	if !ok {
		return 0
	}
	return limit
}

// IsUnlimited reports whether res has no ceiling on this plan.
func (p Plan) IsUnlimited(res Resource) bool {
	return p.Limit(res) == Unlimited
}

func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// clone returns a deep copy so catalog data cannot be mutated through a returned value.
func (p Plan) clone() Plan {
	out := p
	out.Features = slices.Clone(p.Features)
	if p.Limits != nil {
		out.Limits = make(map[Resource]int64, len(p.Limits))
		for k, v := range p.Limits {
			out.Limits[k] = v
		}
	}
	return out
}

// ResourceChange represents a change in resource limit.
type ResourceChange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// PlanComparison contains the differences between two plans.
type PlanComparison struct {
	NewFeatures     []Feature
	LostFeatures    []Feature
	IncreasedLimits map[Resource]ResourceChange
	DecreasedLimits map[Resource]ResourceChange
}

// HasResourceDecreases returns true if any resources have decreased limits.
func (c *PlanComparison) HasResourceDecreases() bool {
	return len(c.DecreasedLimits) > 0
}

// ComparePlans returns the differences between current and target plans.
// A resource missing from a plan counts as a zero limit.
func ComparePlans(current, target Plan) PlanComparison {
	cmp := PlanComparison{
		NewFeatures:     make([]Feature, 0),
		LostFeatures:    make([]Feature, 0),
		IncreasedLimits: make(map[Resource]ResourceChange),
		DecreasedLimits: make(map[Resource]ResourceChange),
	}

	for _, f := range target.Features {
		if !slices.Contains(current.Features, f) {
			cmp.NewFeatures = append(cmp.NewFeatures, f)
		}
	}
	for _, f := range current.Features {
		if !slices.Contains(target.Features, f) {
			cmp.LostFeatures = append(cmp.LostFeatures, f)
		}
	}

	for _, res := range Resources() {
		from, to := current.Limit(res), target.Limit(res)
		if from == to {
			continue
		}
		change := ResourceChange{From: from, To: to}
		switch {
		case from == Unlimited:
			// unlimited to limited is always a decrease
			cmp.DecreasedLimits[res] = change
		case to == Unlimited, to > from:
			cmp.IncreasedLimits[res] = change
		default:
			cmp.DecreasedLimits[res] = change
		}
	}

	return cmp
}
