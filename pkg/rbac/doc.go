// Package rbac resolves what a member may do inside an organization.
//
// Roles, permissions and modules are closed enumerations. A static Matrix maps
// each role to its permissions and a ModuleTable maps each UI module to the
// permissions that open it. Lookups are plain table reads, so any role outside
// the matrix is denied everything.
//
//	r := rbac.Default()
//	r.HasPermission(rbac.RoleBroker, rbac.PermSellLots)      // true
//	r.HasPermission(rbac.RoleBroker, rbac.PermManageBilling) // false
//	r.CanAccessModule(rbac.RoleBuyer, rbac.ModuleMyPurchase) // true
//
// Custom tables are checked by Validate before a Resolver is built:
//
//	r, err := rbac.NewResolver(matrix, rbac.DefaultModules())
package rbac
