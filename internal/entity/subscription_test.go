package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionPlanRank(t *testing.T) {
	assert.Less(t, PlanStandard.Rank(), PlanPremium.Rank())
	assert.Less(t, PlanPremium.Rank(), PlanEnterprise.Rank())

	// Unknown plans rank below everything valid.
	assert.Equal(t, 0, SubscriptionPlan("gold").Rank())
	assert.False(t, SubscriptionPlan("gold").Valid())
}

func TestActorRefIdentity(t *testing.T) {
	a := IndividualRef("id-1")
	b := OrganizationRef("id-1")

	// Identity is the (id, kind) pair, not the raw id.
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(IndividualRef("id-1")))

	assert.True(t, ActorIndividual.Valid())
	assert.False(t, ActorKind("bot").Valid())
}
