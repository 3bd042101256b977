package usecase

import (
	"testing"

	"collabnet/internal/entity"

	"github.com/stretchr/testify/assert"
)

func planPtr(p entity.SubscriptionPlan) *entity.SubscriptionPlan { return &p }

func strPtr(s string) *string { return &s }

func TestUpgradeFromFollow_RequiresLink(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")

	_, _, err := uc.UpgradeFromFollow(alice.ID, acme.ID, SubscriptionRequestInput{})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = env.relationships().Follow(alice, acme)
	assert.NoError(t, err)

	sub, page, err := uc.UpgradeFromFollow(alice.ID, acme.ID, SubscriptionRequestInput{})
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	assert.Equal(t, entity.PlanStandard, sub.Plan)
	assert.Equal(t, "tech", sub.Sector)
	assert.Equal(t, "acme - alice", page.Title)

	// The follow link survives the upgrade.
	follows, err := env.follows.Exists(alice, acme)
	assert.NoError(t, err)
	assert.True(t, follows)

	_, _, err = uc.UpgradeFromFollow(alice.ID, acme.ID, SubscriptionRequestInput{})
	assert.ErrorIs(t, err, entity.ErrAlreadySubscribed)
}

func TestSubscriptionUpdate_PlanMustAdvance(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	_, err := uc.Update(sub.ID, alice.ID, SubscriptionPatch{Plan: planPtr(entity.PlanStandard)})
	assert.ErrorIs(t, err, entity.ErrInvalidUpgrade)

	updated, err := uc.Update(sub.ID, alice.ID, SubscriptionPatch{Plan: planPtr(entity.PlanPremium)})
	assert.NoError(t, err)
	assert.Equal(t, entity.PlanPremium, updated.Plan)

	// Downgrades never happen, not even back to where we started.
	_, err = uc.Update(sub.ID, alice.ID, SubscriptionPatch{Plan: planPtr(entity.PlanStandard)})
	assert.ErrorIs(t, err, entity.ErrInvalidUpgrade)

	updated, err = uc.Update(sub.ID, alice.ID, SubscriptionPatch{Plan: planPtr(entity.PlanEnterprise)})
	assert.NoError(t, err)
	assert.Equal(t, entity.PlanEnterprise, updated.Plan)
}

func TestSubscriptionUpdate_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	_, err := uc.Update(sub.ID, bob.ID, SubscriptionPatch{Sector: strPtr("finance")})
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)

	updated, err := uc.Update(sub.ID, alice.ID, SubscriptionPatch{Sector: strPtr("finance"), Role: strPtr("advisor")})
	assert.NoError(t, err)
	assert.Equal(t, "finance", updated.Sector)
	assert.Equal(t, "advisor", updated.Role)
}

func TestSubscriptionSuspendReactivate_EitherParty(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	_, err := uc.Suspend(sub.ID, bob)
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)

	suspended, err := uc.Suspend(sub.ID, acme)
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionSuspended, suspended.Status)

	// Already suspended.
	_, err = uc.Suspend(sub.ID, alice)
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	// While suspended the owner cannot edit.
	_, err = uc.Update(sub.ID, alice.ID, SubscriptionPatch{Sector: strPtr("finance")})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	reactivated, err := uc.Reactivate(sub.ID, alice)
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, reactivated.Status)

	_, err = uc.Reactivate(sub.ID, alice)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestSubscriptionTerminate_IsTerminal(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	// Only the owning individual may terminate.
	_, err := uc.Terminate(sub.ID, acme.ID)
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)

	terminated, err := uc.Terminate(sub.ID, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionInactive, terminated.Status)
	assert.NotNil(t, terminated.PeriodEnd)

	// No transition leads out of inactive.
	_, err = uc.Terminate(sub.ID, alice.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	_, err = uc.Suspend(sub.ID, alice)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	_, err = uc.Reactivate(sub.ID, alice)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	_, err = uc.Update(sub.ID, alice.ID, SubscriptionPatch{Plan: planPtr(entity.PlanPremium)})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	// The pair slot stays occupied after termination.
	_, err = env.relationships().Follow(alice, acme)
	assert.NoError(t, err)
	_, _, err = uc.UpgradeFromFollow(alice.ID, acme.ID, SubscriptionRequestInput{})
	assert.ErrorIs(t, err, entity.ErrAlreadySubscribed)
}

func TestGetPageForSubscription(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	page, err := uc.GetPageForSubscription(sub.ID)
	assert.NoError(t, err)
	assert.Equal(t, sub.PartnershipPageID, page.ID)
	assert.Equal(t, sub.ID, page.SubscriptionID)

	_, err = uc.GetPageForSubscription("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSubscriptionUpdatePermissions(t *testing.T) {
	env := newTestEnv(t)
	uc := env.subscriptionsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	acme := env.organization(t, "acme", "tech")
	sub := env.activeSubscription(t, alice, acme)

	_, err := uc.UpdatePermissions(sub.ID, bob.ID, []string{"billing"})
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)

	updated, err := uc.UpdatePermissions(sub.ID, alice.ID, []string{"billing", "analytics"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"billing", "analytics"}, updated.Permissions)
}
