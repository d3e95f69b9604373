package plans

// Application identifies one of the product modules an organization subscribes to
// independently. The set is closed.
type Application string

const (
	ApplicationPPEAdmin  Application = "ppe-admin" // condominium (PPE) administration
	ApplicationRegie     Application = "regie"     // rental management
	ApplicationPromotion Application = "promotion" // development and lot sales
)

// Applications returns every known application in a stable order.
func Applications() []Application {
	return []Application{ApplicationPPEAdmin, ApplicationRegie, ApplicationPromotion}
}

// Valid reports whether a belongs to the closed application set.
func (a Application) Valid() bool {
	switch a {
	case ApplicationPPEAdmin, ApplicationRegie, ApplicationPromotion:
		return true
	}
	return false
}

// ParseApplication converts a raw identifier into an Application.
func ParseApplication(s string) (Application, error) {
	a := Application(s)
	if !a.Valid() {
		return "", ErrUnknownApplication
	}
	return a, nil
}

// Tier is a named pricing level.
type Tier string

const (
	TierStarter    Tier = "starter"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Tiers returns every tier from cheapest to most expensive.
func Tiers() []Tier {
	return []Tier{TierStarter, TierPro, TierEnterprise}
}

func (t Tier) Valid() bool {
	switch t {
	case TierStarter, TierPro, TierEnterprise:
		return true
	}
	return false
}

// ParseTier converts a raw identifier into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	return t, nil
}

// Resource represents a countable organization resource kind.
type Resource string

const (
	ResourceProjects  Resource = "projects"
	ResourceUsers     Resource = "users"   // seats, counted as memberships
	ResourceStorage   Resource = "storage" // measured in MB
	ResourceBuildings Resource = "buildings"
	ResourceUnits     Resource = "units"
)

// Resources returns every tracked resource kind.
func Resources() []Resource {
	return []Resource{ResourceProjects, ResourceUsers, ResourceStorage, ResourceBuildings, ResourceUnits}
}

func (r Resource) Valid() bool {
	switch r {
	case ResourceProjects, ResourceUsers, ResourceStorage, ResourceBuildings, ResourceUnits:
		return true
	}
	return false
}

// Unlimited indicates no ceiling for a resource (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// Feature is a plan-specific capability flag.
type Feature string

const (
	FeatureOwnerPortal     Feature = "owner_portal"
	FeatureBuyerPortal     Feature = "buyer_portal"
	FeatureAccounting      Feature = "accounting"
	FeatureAssemblyVoting  Feature = "assembly_voting"
	FeatureLeaseTemplates  Feature = "lease_templates"
	FeatureRentIndexation  Feature = "rent_indexation"
	FeatureLotReservations Feature = "lot_reservations"
	FeatureReports         Feature = "reports"
	FeatureAPI             Feature = "api"
	FeatureSSO             Feature = "sso"
	FeaturePrioritySupport Feature = "priority_support"
)
