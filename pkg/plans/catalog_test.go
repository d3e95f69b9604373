package plans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog := plans.Default()

	t.Run("has every application and tier", func(t *testing.T) {
		t.Parallel()
		for _, app := range plans.Applications() {
			for _, tier := range plans.Tiers() {
				p, err := catalog.Lookup(app, tier)
				require.NoError(t, err, "%s/%s", app, tier)
				assert.Equal(t, app, p.Application)
				assert.Equal(t, tier, p.Tier)
				assert.NotEmpty(t, p.Name)
			}
		}
		assert.Len(t, catalog.All(), len(plans.Applications())*len(plans.Tiers()))
	})

	t.Run("enterprise tiers are custom priced", func(t *testing.T) {
		t.Parallel()
		for _, app := range plans.Applications() {
			p, err := catalog.Lookup(app, plans.TierEnterprise)
			require.NoError(t, err)
			assert.True(t, p.Price.Custom)
			assert.True(t, p.IsUnlimited(plans.ResourceProjects))
		}
	})

	t.Run("returned plans are copies", func(t *testing.T) {
		t.Parallel()
		p, err := catalog.Lookup(plans.ApplicationRegie, plans.TierStarter)
		require.NoError(t, err)
		p.Limits[plans.ResourceProjects] = 1000
		p.Features[0] = "tampered"

		again, err := catalog.Lookup(plans.ApplicationRegie, plans.TierStarter)
		require.NoError(t, err)
		assert.Equal(t, int64(5), again.Limit(plans.ResourceProjects))
		assert.Equal(t, plans.FeatureLeaseTemplates, again.Features[0])
	})

	t.Run("for application is ordered by tier", func(t *testing.T) {
		t.Parallel()
		list := catalog.ForApplication(plans.ApplicationPromotion)
		require.Len(t, list, 3)
		assert.Equal(t, plans.TierStarter, list[0].Tier)
		assert.Equal(t, plans.TierPro, list[1].Tier)
		assert.Equal(t, plans.TierEnterprise, list[2].Tier)
	})
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	catalog := plans.MustCatalog("test", plans.Plan{
		Application: plans.ApplicationRegie,
		Tier:        plans.TierPro,
		Price:       plans.Money{Amount: 100, Currency: "CHF"},
	})

	_, err := catalog.Lookup("crm", plans.TierPro)
	assert.ErrorIs(t, err, plans.ErrUnknownApplication)

	_, err = catalog.Lookup(plans.ApplicationRegie, "gold")
	assert.ErrorIs(t, err, plans.ErrUnknownTier)

	_, err = catalog.Lookup(plans.ApplicationRegie, plans.TierStarter)
	assert.ErrorIs(t, err, plans.ErrPlanNotFound)

	p, err := catalog.Lookup(plans.ApplicationRegie, plans.TierPro)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Limit(plans.ResourceProjects), "unlisted resources have a zero ceiling")
	assert.Equal(t, "test", catalog.Version())
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Parallel()

	valid := plans.Plan{
		Application: plans.ApplicationPPEAdmin,
		Tier:        plans.TierStarter,
		Price:       plans.Money{Amount: 1, Currency: "CHF"},
	}

	tests := []struct {
		name   string
		mutate func(p *plans.Plan)
	}{
		{"unknown application", func(p *plans.Plan) { p.Application = "crm" }},
		{"unknown tier", func(p *plans.Plan) { p.Tier = "gold" }},
		{"negative price", func(p *plans.Plan) { p.Price.Amount = -1 }},
		{"missing currency", func(p *plans.Plan) { p.Price.Currency = "" }},
		{"unknown resource", func(p *plans.Plan) { p.Limits = map[plans.Resource]int64{"seats": 1} }},
		{"limit below unlimited", func(p *plans.Plan) { p.Limits = map[plans.Resource]int64{plans.ResourceUsers: -2} }},
		{"empty feature", func(p *plans.Plan) { p.Features = []plans.Feature{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tt.mutate(&p)
			_, err := plans.NewCatalog("v", p)
			assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
		})
	}

	t.Run("duplicate plan", func(t *testing.T) {
		t.Parallel()
		_, err := plans.NewCatalog("v", valid, valid)
		assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
	})

	t.Run("custom price needs no currency", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Price = plans.CustomPrice()
		_, err := plans.NewCatalog("v", p)
		assert.NoError(t, err)
	})

	t.Run("must catalog panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { plans.MustCatalog("v", valid, valid) })
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	app, err := plans.ParseApplication("ppe-admin")
	require.NoError(t, err)
	assert.Equal(t, plans.ApplicationPPEAdmin, app)

	_, err = plans.ParseApplication("PPE-ADMIN")
	assert.ErrorIs(t, err, plans.ErrUnknownApplication)

	tier, err := plans.ParseTier("enterprise")
	require.NoError(t, err)
	assert.Equal(t, plans.TierEnterprise, tier)

	_, err = plans.ParseTier("")
	assert.ErrorIs(t, err, plans.ErrUnknownTier)
}
