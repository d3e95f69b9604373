package plans

// DefaultVersion is the version of the compiled-in catalog.
const DefaultVersion = "2024.2"

var defaultCatalog = MustCatalog(DefaultVersion,
	// PPE administration
	Plan{
		Application: ApplicationPPEAdmin,
		Tier:        TierStarter,
		Name:        "PPE Starter",
		Price:       Money{Amount: 4900, Currency: "CHF"},
		Features:    []Feature{FeatureOwnerPortal},
		Limits: map[Resource]int64{
			ResourceBuildings: 5,
			ResourceUnits:     100,
			ResourceProjects:  5,
			ResourceUsers:     3,
			ResourceStorage:   5 * 1024,
		},
	},
	Plan{
		Application: ApplicationPPEAdmin,
		Tier:        TierPro,
		Name:        "PPE Pro",
		Price:       Money{Amount: 14900, Currency: "CHF"},
		Features:    []Feature{FeatureOwnerPortal, FeatureAccounting, FeatureAssemblyVoting, FeatureReports},
		Limits: map[Resource]int64{
			ResourceBuildings: 25,
			ResourceUnits:     600,
			ResourceProjects:  25,
			ResourceUsers:     15,
			ResourceStorage:   50 * 1024,
		},
	},
	Plan{
		Application: ApplicationPPEAdmin,
		Tier:        TierEnterprise,
		Name:        "PPE Enterprise",
		Price:       CustomPrice(),
		Features: []Feature{
			FeatureOwnerPortal, FeatureAccounting, FeatureAssemblyVoting, FeatureReports,
			FeatureAPI, FeatureSSO, FeaturePrioritySupport,
		},
		Limits: map[Resource]int64{
			ResourceBuildings: Unlimited,
			ResourceUnits:     Unlimited,
			ResourceProjects:  Unlimited,
			ResourceUsers:     Unlimited,
			ResourceStorage:   500 * 1024,
		},
	},

	// Rental management
	Plan{
		Application: ApplicationRegie,
		Tier:        TierStarter,
		Name:        "Regie Starter",
		Price:       Money{Amount: 5900, Currency: "CHF"},
		Features:    []Feature{FeatureLeaseTemplates},
		Limits: map[Resource]int64{
			ResourceBuildings: 10,
			ResourceUnits:     150,
			ResourceProjects:  5,
			ResourceUsers:     3,
			ResourceStorage:   5 * 1024,
		},
	},
	Plan{
		Application: ApplicationRegie,
		Tier:        TierPro,
		Name:        "Regie Pro",
		Price:       Money{Amount: 17900, Currency: "CHF"},
		Features:    []Feature{FeatureLeaseTemplates, FeatureRentIndexation, FeatureAccounting, FeatureOwnerPortal, FeatureReports},
		Limits: map[Resource]int64{
			ResourceBuildings: 50,
			ResourceUnits:     1000,
			ResourceProjects:  25,
			ResourceUsers:     15,
			ResourceStorage:   50 * 1024,
		},
	},
	Plan{
		Application: ApplicationRegie,
		Tier:        TierEnterprise,
		Name:        "Regie Enterprise",
		Price:       CustomPrice(),
		Features: []Feature{
			FeatureLeaseTemplates, FeatureRentIndexation, FeatureAccounting, FeatureOwnerPortal,
			FeatureReports, FeatureAPI, FeatureSSO, FeaturePrioritySupport,
		},
		Limits: map[Resource]int64{
			ResourceBuildings: Unlimited,
			ResourceUnits:     Unlimited,
			ResourceProjects:  Unlimited,
			ResourceUsers:     Unlimited,
			ResourceStorage:   500 * 1024,
		},
	},

	// Development and lot sales
	Plan{
		Application: ApplicationPromotion,
		Tier:        TierStarter,
		Name:        "Promotion Starter",
		Price:       Money{Amount: 7900, Currency: "CHF"},
		Features:    []Feature{FeatureLotReservations},
		Limits: map[Resource]int64{
			ResourceProjects:  5,
			ResourceBuildings: 10,
			ResourceUnits:     200,
			ResourceUsers:     5,
			ResourceStorage:   10 * 1024,
		},
	},
	Plan{
		Application: ApplicationPromotion,
		Tier:        TierPro,
		Name:        "Promotion Pro",
		Price:       Money{Amount: 24900, Currency: "CHF"},
		Features:    []Feature{FeatureLotReservations, FeatureBuyerPortal, FeatureReports},
		Limits: map[Resource]int64{
			ResourceProjects:  20,
			ResourceBuildings: 60,
			ResourceUnits:     1500,
			ResourceUsers:     25,
			ResourceStorage:   100 * 1024,
		},
	},
	Plan{
		Application: ApplicationPromotion,
		Tier:        TierEnterprise,
		Name:        "Promotion Enterprise",
		Price:       CustomPrice(),
		Features: []Feature{
			FeatureLotReservations, FeatureBuyerPortal, FeatureReports,
			FeatureAPI, FeatureSSO, FeaturePrioritySupport,
		},
		Limits: map[Resource]int64{
			ResourceProjects:  Unlimited,
			ResourceBuildings: Unlimited,
			ResourceUnits:     Unlimited,
			ResourceUsers:     Unlimited,
			ResourceStorage:   1000 * 1024,
		},
	},
)

// Default returns the compiled-in catalog.
func Default() *Catalog {
	return defaultCatalog
}
