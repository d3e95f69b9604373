package rbac

import "strings"

// Role is a member's function inside one organization. The set is closed:
// any value outside it resolves to no permissions at all.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleDirector        Role = "director"
	RoleAccountant      Role = "accountant"
	RolePropertyManager Role = "property_manager"
	RoleSales           Role = "sales"
	RoleArchitect       Role = "architect"
	RoleContractor      Role = "contractor"
	RoleBroker          Role = "courtier"
	RoleNotary          Role = "notary"
	RoleBuyer           Role = "buyer"
	RoleOwner           Role = "owner"
)

// Roles returns every known role, internal roles first.
func Roles() []Role {
	return []Role{
		RoleAdmin, RoleDirector, RoleAccountant, RolePropertyManager, RoleSales,
		RoleArchitect, RoleContractor, RoleBroker, RoleNotary,
		RoleBuyer, RoleOwner,
	}
}

// Valid reports whether r is part of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleClasses[r]
	return ok
}

// Class returns the UI grouping of the role, or ClassUnknown.
func (r Role) Class() Class {
	return ClassOf(r)
}

// ParseRole normalizes s and converts it to a Role.
// Identifiers are matched case-insensitively ("COURTIER" is RoleBroker).
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Class groups roles for display.
type Class string

const (
	ClassUnknown  Class = ""
	ClassInternal Class = "internal"
	ClassExternal Class = "external"
	ClassBuyer    Class = "buyer"
)

var roleClasses = map[Role]Class{
	RoleAdmin:           ClassInternal,
	RoleDirector:        ClassInternal,
	RoleAccountant:      ClassInternal,
	RolePropertyManager: ClassInternal,
	RoleSales:           ClassInternal,
	RoleArchitect:       ClassExternal,
	RoleContractor:      ClassExternal,
	RoleBroker:          ClassExternal,
	RoleNotary:          ClassExternal,
	RoleBuyer:           ClassBuyer,
	RoleOwner:           ClassBuyer,
}

// ClassOf derives the class of a role. Unknown roles have ClassUnknown.
func ClassOf(r Role) Class {
	return roleClasses[r]
}

// Permission is an atomic capability token.
type Permission string

const (
	PermViewProjects    Permission = "view_projects"
	PermCreateProjects  Permission = "create_projects"
	PermEditProjects    Permission = "edit_projects"
	PermDeleteProjects  Permission = "delete_projects"
	PermViewLots        Permission = "view_lots"
	PermSellLots        Permission = "sell_lots"
	PermReserveLots     Permission = "reserve_lots"
	PermViewBuyers      Permission = "view_buyers"
	PermManageBuyers    Permission = "manage_buyers"
	PermViewDocuments   Permission = "view_documents"
	PermUploadDocuments Permission = "upload_documents"
	PermViewFinances    Permission = "view_finances"
	PermManageFinances  Permission = "manage_finances"
	PermManageBilling   Permission = "manage_billing"
	PermManageUsers     Permission = "manage_users"
	PermViewReports     Permission = "view_reports"
	PermManageSettings  Permission = "manage_settings"
	PermViewLeases      Permission = "view_leases"
	PermManageLeases    Permission = "manage_leases"
	PermViewTenants     Permission = "view_tenants"
	PermManageTenants   Permission = "manage_tenants"
	PermViewBuildings   Permission = "view_buildings"
	PermManageBuildings Permission = "manage_buildings"
	PermViewOwnPurchase Permission = "view_own_purchase"
)

var allPermissions = []Permission{
	PermViewProjects, PermCreateProjects, PermEditProjects, PermDeleteProjects,
	PermViewLots, PermSellLots, PermReserveLots,
	PermViewBuyers, PermManageBuyers,
	PermViewDocuments, PermUploadDocuments,
	PermViewFinances, PermManageFinances, PermManageBilling,
	PermManageUsers, PermViewReports, PermManageSettings,
	PermViewLeases, PermManageLeases, PermViewTenants, PermManageTenants,
	PermViewBuildings, PermManageBuildings,
	PermViewOwnPurchase,
}

// AllPermissions returns a copy of the full permission set.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// ParsePermission converts s into a known Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allPermissions {
		if p == known {
			return p, nil
		}
	}
	return "", ErrUnknownPermission
}

// Module is a coarse UI area gated by a list of permissions.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleProjects   Module = "projects"
	ModuleLots       Module = "lots"
	ModuleBuyers     Module = "buyers"
	ModuleDocuments  Module = "documents"
	ModuleFinances   Module = "finances"
	ModuleBilling    Module = "billing"
	ModuleUsers      Module = "users"
	ModuleReports    Module = "reports"
	ModuleSettings   Module = "settings"
	ModuleLeases     Module = "leases"
	ModuleTenants    Module = "tenants"
	ModuleBuildings  Module = "buildings"
	ModuleMyPurchase Module = "my_purchase"
)

// Modules returns every gated module in menu order.
func Modules() []Module {
	return []Module{
		ModuleDashboard, ModuleProjects, ModuleLots, ModuleBuyers, ModuleDocuments,
		ModuleFinances, ModuleBilling, ModuleUsers, ModuleReports, ModuleSettings,
		ModuleLeases, ModuleTenants, ModuleBuildings, ModuleMyPurchase,
	}
}
