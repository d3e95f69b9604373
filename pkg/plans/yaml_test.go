package plans_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

const sampleCatalog = `
version: "2025.1"
plans:
  - application: regie
    tier: starter
    name: Regie Starter
    price:
      amount: 5900
      currency: CHF
    features: [lease_templates]
    limits:
      projects: 5
      users: 3
      storage: 5120
  - application: regie
    tier: enterprise
    name: Regie Enterprise
    price: custom
    limits:
      projects: unlimited
      users: Unlimited
`

func TestParseYAML(t *testing.T) {
	t.Parallel()

	catalog, err := plans.ParseYAML([]byte(sampleCatalog))
	require.NoError(t, err)
	assert.Equal(t, "2025.1", catalog.Version())

	starter, err := catalog.Lookup(plans.ApplicationRegie, plans.TierStarter)
	require.NoError(t, err)
	assert.Equal(t, plans.Money{Amount: 5900, Currency: "CHF"}, starter.Price)
	assert.Equal(t, int64(5120), starter.Limit(plans.ResourceStorage))
	assert.True(t, starter.HasFeature(plans.FeatureLeaseTemplates))

	enterprise, err := catalog.Lookup(plans.ApplicationRegie, plans.TierEnterprise)
	require.NoError(t, err)
	assert.True(t, enterprise.Price.Custom)
	assert.True(t, enterprise.IsUnlimited(plans.ResourceProjects))
	assert.True(t, enterprise.IsUnlimited(plans.ResourceUsers))
}

func TestParseYAML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "missing version",
			doc:  "plans: []",
			want: plans.ErrInvalidPlanConfiguration,
		},
		{
			name: "bad limit",
			doc:  "version: v\nplans:\n  - application: regie\n    tier: pro\n    price: custom\n    limits:\n      projects: lots\n",
			want: plans.ErrFailedToLoadCatalog,
		},
		{
			name: "bad price",
			doc:  "version: v\nplans:\n  - application: regie\n    tier: pro\n    price: free\n",
			want: plans.ErrFailedToLoadCatalog,
		},
		{
			name: "unknown application",
			doc:  "version: v\nplans:\n  - application: crm\n    tier: pro\n    price: custom\n",
			want: plans.ErrUnknownApplication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := plans.ParseYAML([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSourceFor(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses default", func(t *testing.T) {
		t.Parallel()
		c, err := plans.SourceFor("").Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, plans.DefaultVersion, c.Version())
	})

	t.Run("file source", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

		c, err := plans.SourceFor(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2025.1", c.Version())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := plans.FileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
		assert.ErrorIs(t, err, plans.ErrFailedToLoadCatalog)
	})
}
