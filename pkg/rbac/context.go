package rbac

import "context"

type roleCtxKey struct{}

// SetRoleToContext attaches the caller's resolved role, typically after the
// membership lookup of a request.
func SetRoleToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// GetRoleFromContext returns the role stored by SetRoleToContext.
func GetRoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok && role != ""
}
