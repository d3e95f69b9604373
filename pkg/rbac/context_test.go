package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantgate/pkg/rbac"
)

func TestRoleContext(t *testing.T) {
	t.Parallel()

	t.Run("set and get role", func(t *testing.T) {
		t.Parallel()
		ctx := rbac.SetRoleToContext(context.Background(), rbac.RoleAdmin)
		role, ok := rbac.GetRoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.RoleAdmin, role)
	})

	t.Run("get role from empty context", func(t *testing.T) {
		t.Parallel()
		role, ok := rbac.GetRoleFromContext(context.Background())
		assert.False(t, ok)
		assert.Empty(t, role)
	})

	t.Run("override role in context", func(t *testing.T) {
		t.Parallel()
		ctx := rbac.SetRoleToContext(context.Background(), rbac.RoleBuyer)
		ctx = rbac.SetRoleToContext(ctx, rbac.RoleAdmin)
		role, ok := rbac.GetRoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.RoleAdmin, role)
	})

	t.Run("plain string is not a role", func(t *testing.T) {
		t.Parallel()
		type wrongKey struct{}
		ctx := context.WithValue(context.Background(), wrongKey{}, "admin")
		_, ok := rbac.GetRoleFromContext(ctx)
		assert.False(t, ok)
	})
}
