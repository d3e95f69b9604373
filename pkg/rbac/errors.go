package rbac

import "errors"

var (
	ErrInvalidRole             = errors.New("rbac.invalid_role")
	ErrUnknownPermission       = errors.New("rbac.unknown_permission")
	ErrUnknownModule           = errors.New("rbac.unknown_module")
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")
	// ErrRoleNotInContext is returned by CanFromContext when no role was stored.
	ErrRoleNotInContext = errors.New("rbac.role_not_in_context")
	// ErrInvalidMatrix wraps every validation failure of a matrix or module table.
	ErrInvalidMatrix = errors.New("rbac.invalid_matrix")
)
