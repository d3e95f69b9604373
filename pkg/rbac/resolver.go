package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

type permissionSet map[Permission]struct{}

// Resolver answers permission and module questions from a fixed matrix.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	grants  map[Role]permissionSet
	modules map[Module][]Permission
}

var defaultResolver = MustResolver(DefaultMatrix(), DefaultModules())

// Default returns the resolver built from the compiled-in tables.
func Default() *Resolver {
	return defaultResolver
}

// NewResolver validates the tables and precomputes permission sets.
func NewResolver(matrix Matrix, modules ModuleTable) (*Resolver, error) {
	if err := Validate(matrix, modules); err != nil {
		return nil, err
	}

	r := &Resolver{
		grants:  make(map[Role]permissionSet, len(matrix)),
		modules: make(map[Module][]Permission, len(modules)),
	}
	for role, perms := range matrix {
		set := make(permissionSet, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		r.grants[role] = set
	}
	for m, perms := range modules {
		r.modules[m] = slices.Clone(perms)
	}
	return r, nil
}

// MustResolver is like NewResolver but panics on invalid tables.
func MustResolver(matrix Matrix, modules ModuleTable) *Resolver {
	r, err := NewResolver(matrix, modules)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks that every role and permission in the tables is known,
// every role has an entry, and admin holds every permission.
func Validate(matrix Matrix, modules ModuleTable) error {
	known := make(permissionSet, len(allPermissions))
	for _, p := range allPermissions {
		known[p] = struct{}{}
	}

	for role, perms := range matrix {
		if !role.Valid() {
			return errors.Join(ErrInvalidMatrix, ErrInvalidRole, fmt.Errorf("role %q", role))
		}
		for _, p := range perms {
			if _, ok := known[p]; !ok {
				return errors.Join(ErrInvalidMatrix, ErrUnknownPermission,
					fmt.Errorf("role %s grants %q", role, p))
			}
		}
	}
	for _, role := range Roles() {
		if _, ok := matrix[role]; !ok {
			return errors.Join(ErrInvalidMatrix, fmt.Errorf("role %s has no entry", role))
		}
	}
	for _, p := range allPermissions {
		if !slices.Contains(matrix[RoleAdmin], p) {
			return errors.Join(ErrInvalidMatrix, fmt.Errorf("admin is missing %s", p))
		}
	}

	for m, perms := range modules {
		if len(perms) == 0 {
			return errors.Join(ErrInvalidMatrix, fmt.Errorf("module %s has no permissions", m))
		}
		for _, p := range perms {
			if _, ok := known[p]; !ok {
				return errors.Join(ErrInvalidMatrix, ErrUnknownPermission,
					fmt.Errorf("module %s requires %q", m, p))
			}
		}
	}
	return nil
}

// HasPermission reports whether role holds perm. Unknown roles hold nothing.
func (r *Resolver) HasPermission(role Role, perm Permission) bool {
	set, ok := r.grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// HasAnyPermission reports whether role holds at least one of perms.
// An empty list is never satisfied.
func (r *Resolver) HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if r.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of perms.
// An empty list is satisfied by any known role.
func (r *Resolver) HasAllPermissions(role Role, perms ...Permission) bool {
	if _, ok := r.grants[role]; !ok {
		return false
	}
	for _, p := range perms {
		if !r.HasPermission(role, p) {
			return false
		}
	}
	return true
}

// CanAccessModule reports whether role holds any permission that opens module.
// Unknown modules are closed to everyone.
func (r *Resolver) CanAccessModule(role Role, module Module) bool {
	perms, ok := r.modules[module]
	if !ok {
		return false
	}
	return r.HasAnyPermission(role, perms...)
}

// AccessibleModules lists the modules open to role in menu order.
func (r *Resolver) AccessibleModules(role Role) []Module {
	out := make([]Module, 0)
	for _, m := range Modules() {
		if r.CanAccessModule(role, m) {
			out = append(out, m)
		}
	}
	return out
}

// PermissionsOf returns the permissions granted to role in canonical order.
func (r *Resolver) PermissionsOf(role Role) []Permission {
	out := make([]Permission, 0)
	for _, p := range allPermissions {
		if r.HasPermission(role, p) {
			out = append(out, p)
		}
	}
	return out
}

// Can is the error-returning form of HasPermission.
func (r *Resolver) Can(role Role, perm Permission) error {
	if _, ok := r.grants[role]; !ok {
		return ErrInvalidRole
	}
	if !r.HasPermission(role, perm) {
		return ErrInsufficientPermissions
	}
	return nil
}

// CanFromContext checks the role stored in ctx.
func (r *Resolver) CanFromContext(ctx context.Context, perm Permission) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	return r.Can(role, perm)
}

// HasPermission checks perm against the default resolver.
func HasPermission(role Role, perm Permission) bool {
	return defaultResolver.HasPermission(role, perm)
}

// HasAnyPermission checks perms against the default resolver.
func HasAnyPermission(role Role, perms ...Permission) bool {
	return defaultResolver.HasAnyPermission(role, perms...)
}

// HasAllPermissions checks perms against the default resolver.
func HasAllPermissions(role Role, perms ...Permission) bool {
	return defaultResolver.HasAllPermissions(role, perms...)
}

// CanAccessModule checks module against the default resolver.
func CanAccessModule(role Role, module Module) bool {
	return defaultResolver.CanAccessModule(role, module)
}
