package usecase

import (
	"testing"

	"collabnet/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestFollow_SelfReference(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")

	_, err := uc.Follow(alice, alice)
	assert.ErrorIs(t, err, entity.ErrSelfReference)
}

func TestFollow_SameIDDifferentKindAllowed(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")
	org := env.organization(t, "acme", "tech")

	// Identity is the (id, kind) pair; an individual and an organization
	// sharing a raw id are different actors.
	phantom := entity.ActorRef{ID: alice.ID, Kind: entity.ActorOrganization}
	assert.False(t, alice.Equal(phantom))

	_, err := uc.Follow(alice, org)
	assert.NoError(t, err)
}

func TestFollow_UnknownActor(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")

	_, err := uc.Follow(alice, entity.IndividualRef("00000000-0000-0000-0000-000000000000"))
	assert.ErrorIs(t, err, entity.ErrNotFound)

	// Unknown kinds never resolve.
	_, err = uc.Follow(alice, entity.ActorRef{ID: alice.ID, Kind: "bot"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFollow_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	first, err := uc.Follow(alice, bob)
	assert.NoError(t, err)

	second, err := uc.Follow(alice, bob)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUnfollow_BlockedByActiveSubscription(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")

	_, err := uc.Follow(alice, acme)
	assert.NoError(t, err)

	sub := env.activeSubscription(t, alice, acme)

	err = uc.Unfollow(alice, acme)
	assert.ErrorIs(t, err, entity.ErrSubscriptionBlocksUnfollow)

	// Termination releases the link.
	_, err = env.subscriptionsUC().Terminate(sub.ID, alice.ID)
	assert.NoError(t, err)

	assert.NoError(t, uc.Unfollow(alice, acme))
}

func TestUnfollow_OtherDirectionsUnaffected(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")

	_, err := uc.Follow(alice, acme)
	assert.NoError(t, err)
	_, err = uc.Follow(acme, alice)
	assert.NoError(t, err)

	env.activeSubscription(t, alice, acme)

	// The subscription guards the individual->organization direction only.
	assert.NoError(t, uc.Unfollow(acme, alice))
}

func TestRecordEngagement_RejectsUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	uc := env.relationships()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	_, err := uc.Follow(alice, bob)
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.RecordEngagement(alice, bob, "poke"), entity.ErrInvalidState)
	assert.NoError(t, uc.RecordEngagement(alice, bob, entity.EngagementShare))

	link, err := uc.Get(alice, bob)
	assert.NoError(t, err)
	assert.Equal(t, 1, link.ShareCount)
}
