// Package plans holds the static plan catalog: the tiers each application can be
// subscribed to, their prices, feature lists and resource ceilings.
//
// A catalog is pure data. It is loaded once at process start, either from the
// compiled-in default or from a YAML file, validated, and never mutated afterwards.
// Lookups are keyed by (Application, Tier).
//
// Basic usage:
//
//	catalog := plans.Default()
//	plan, err := catalog.Lookup(plans.ApplicationRegie, plans.TierPro)
//	if err != nil {
//	    // unknown application or tier
//	}
//	limit := plan.Limit(plans.ResourceProjects) // plans.Unlimited for no ceiling
//
// Loading a catalog from disk:
//
//	catalog, err := plans.LoadYAMLFile("config/plans.yaml")
//
// The YAML layout accepts the literal "unlimited" for limits and "custom" for prices:
//
//	version: "2024.2"
//	plans:
//	  - application: regie
//	    tier: enterprise
//	    name: Regie Enterprise
//	    price: custom
//	    limits:
//	      projects: unlimited
//	      storage: 512000
package plans
