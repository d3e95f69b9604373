package rbac

// Matrix maps every role to the permissions it is granted.
// New permissions must be added to each role that needs them; admin
// receives the full set automatically.
type Matrix map[Role][]Permission

// ModuleTable maps a module to the permissions that open it. Holding any
// one of them is enough.
type ModuleTable map[Module][]Permission

// DefaultMatrix returns the compiled-in permission matrix.
func DefaultMatrix() Matrix {
	return Matrix{
		RoleAdmin: AllPermissions(),
		RoleDirector: {
			PermViewProjects, PermCreateProjects, PermEditProjects,
			PermViewLots, PermSellLots, PermReserveLots,
			PermViewBuyers, PermManageBuyers,
			PermViewDocuments, PermUploadDocuments,
			PermViewFinances, PermManageFinances,
			PermManageUsers, PermViewReports,
			PermViewLeases, PermManageLeases, PermViewTenants, PermManageTenants,
			PermViewBuildings, PermManageBuildings,
		},
		RoleAccountant: {
			PermViewProjects, PermViewLots, PermViewBuyers,
			PermViewDocuments, PermUploadDocuments,
			PermViewFinances, PermManageFinances, PermViewReports,
			PermViewLeases, PermViewTenants, PermViewBuildings,
		},
		RolePropertyManager: {
			PermViewProjects, PermViewDocuments, PermUploadDocuments,
			PermViewLeases, PermManageLeases, PermViewTenants, PermManageTenants,
			PermViewBuildings, PermManageBuildings, PermViewReports,
		},
		RoleSales: {
			PermViewProjects, PermViewLots, PermSellLots, PermReserveLots,
			PermViewBuyers, PermManageBuyers,
			PermViewDocuments, PermUploadDocuments,
		},
		RoleArchitect: {
			PermViewProjects, PermEditProjects, PermViewLots,
			PermViewDocuments, PermUploadDocuments,
		},
		RoleContractor: {
			PermViewProjects, PermViewDocuments, PermUploadDocuments,
		},
		RoleBroker: {
			PermViewProjects, PermViewLots, PermSellLots, PermReserveLots,
			PermViewBuyers, PermViewDocuments,
		},
		RoleNotary: {
			PermViewProjects, PermViewLots, PermViewBuyers,
			PermViewDocuments, PermUploadDocuments,
		},
		RoleBuyer: {
			PermViewOwnPurchase, PermViewDocuments,
		},
		RoleOwner: {
			PermViewOwnPurchase, PermViewDocuments, PermViewBuildings,
		},
	}
}

// DefaultModules returns the compiled-in module gate table.
func DefaultModules() ModuleTable {
	return ModuleTable{
		ModuleDashboard:  {PermViewProjects, PermViewBuildings, PermViewFinances, PermViewLeases, PermViewOwnPurchase},
		ModuleProjects:   {PermViewProjects},
		ModuleLots:       {PermViewLots},
		ModuleBuyers:     {PermViewBuyers, PermManageBuyers},
		ModuleDocuments:  {PermViewDocuments},
		ModuleFinances:   {PermViewFinances, PermManageFinances},
		ModuleBilling:    {PermManageBilling},
		ModuleUsers:      {PermManageUsers},
		ModuleReports:    {PermViewReports},
		ModuleSettings:   {PermManageSettings},
		ModuleLeases:     {PermViewLeases, PermManageLeases},
		ModuleTenants:    {PermViewTenants, PermManageTenants},
		ModuleBuildings:  {PermViewBuildings, PermManageBuildings},
		ModuleMyPurchase: {PermViewOwnPurchase},
	}
}
