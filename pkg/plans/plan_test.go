package plans_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantgate/pkg/plans"
)

func TestComparePlans(t *testing.T) {
	t.Parallel()

	catalog := plans.Default()
	starter, _ := catalog.Lookup(plans.ApplicationRegie, plans.TierStarter)
	pro, _ := catalog.Lookup(plans.ApplicationRegie, plans.TierPro)
	enterprise, _ := catalog.Lookup(plans.ApplicationRegie, plans.TierEnterprise)

	t.Run("upgrade only increases", func(t *testing.T) {
		t.Parallel()
		cmp := plans.ComparePlans(starter, pro)
		assert.False(t, cmp.HasResourceDecreases())
		assert.Contains(t, cmp.NewFeatures, plans.FeatureRentIndexation)
		assert.Empty(t, cmp.LostFeatures)
		assert.Equal(t, plans.ResourceChange{From: 5, To: 25}, cmp.IncreasedLimits[plans.ResourceProjects])
	})

	t.Run("downgrade from unlimited is a decrease", func(t *testing.T) {
		t.Parallel()
		cmp := plans.ComparePlans(enterprise, pro)
		assert.True(t, cmp.HasResourceDecreases())
		assert.Equal(t, plans.ResourceChange{From: plans.Unlimited, To: 25}, cmp.DecreasedLimits[plans.ResourceProjects])
		assert.Contains(t, cmp.LostFeatures, plans.FeatureSSO)
	})

	t.Run("limited to unlimited is an increase", func(t *testing.T) {
		t.Parallel()
		cmp := plans.ComparePlans(pro, enterprise)
		assert.Equal(t, plans.ResourceChange{From: 15, To: plans.Unlimited}, cmp.IncreasedLimits[plans.ResourceUsers])
	})
}

func TestPlan_HasFeature(t *testing.T) {
	t.Parallel()

	p, _ := plans.Default().Lookup(plans.ApplicationPromotion, plans.TierPro)
	assert.True(t, p.HasFeature(plans.FeatureBuyerPortal))
	assert.False(t, p.HasFeature(plans.FeatureSSO))
}
