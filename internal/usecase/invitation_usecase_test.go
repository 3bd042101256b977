package usecase

import (
	"testing"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestInvitationSend_Validation(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	_, err := uc.Send(alice, alice, "")
	assert.ErrorIs(t, err, entity.ErrSelfReference)

	_, err = uc.Send(alice, entity.IndividualRef("00000000-0000-0000-0000-000000000000"), "")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = uc.Send(alice, bob, "hi")
	assert.NoError(t, err)

	// Only one live pending invitation per ordered pair.
	_, err = uc.Send(alice, bob, "hi again")
	assert.ErrorIs(t, err, entity.ErrDuplicatePending)
}

func TestInvitationSend_BlockedWhenAlreadyConnected(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	_, err := env.relationships().Follow(bob, alice)
	assert.NoError(t, err)

	// A link in either direction blocks a fresh invitation.
	_, err = uc.Send(alice, bob, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyConnected)
}

func TestInvitationAccept_CreatesMutualFollows(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	acme := env.organization(t, "acme", "tech")

	inv, err := uc.Send(alice, acme, "let's work together")
	assert.NoError(t, err)

	accepted, links, err := uc.Accept(inv.ID, acme)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReviewAccepted, accepted.Status)
	assert.Len(t, links, 2)

	forward, _ := env.follows.Exists(alice, acme)
	backward, _ := env.follows.Exists(acme, alice)
	assert.True(t, forward)
	assert.True(t, backward)
}

func TestInvitationAccept_OnlyReceiver(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	carol := env.individual(t, "carol")

	inv, err := uc.Send(alice, bob, "")
	assert.NoError(t, err)

	_, _, err = uc.Accept(inv.ID, carol)
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)

	// The sender cannot accept their own invitation either.
	_, _, err = uc.Accept(inv.ID, alice)
	assert.ErrorIs(t, err, entity.ErrNotAddressedToCaller)
}

func TestInvitationAccept_LapsedInvitation(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	inv, err := uc.Send(alice, bob, "")
	assert.NoError(t, err)

	// Age the invitation past its deadline directly in the store.
	err = env.db.Model(&model.FollowInvitationModel{}).
		Where("id = ?", inv.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error
	assert.NoError(t, err)

	_, _, err = uc.Accept(inv.ID, bob)
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	// A lapsed pending no longer blocks a fresh invitation.
	_, err = uc.Send(alice, bob, "second try")
	assert.NoError(t, err)
}

func TestInvitationCancel_OnlySenderWhilePending(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	inv, err := uc.Send(alice, bob, "")
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.Cancel(inv.ID, bob), entity.ErrNotAddressedToCaller)
	assert.NoError(t, uc.Cancel(inv.ID, alice))
	assert.ErrorIs(t, uc.Cancel(inv.ID, alice), entity.ErrNotFound)
}

func TestInvitationDecline_LeavesNoLinks(t *testing.T) {
	env := newTestEnv(t)
	uc := env.invitationsUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	inv, err := uc.Send(alice, bob, "")
	assert.NoError(t, err)

	declined, err := uc.Decline(inv.ID, bob)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReviewDeclined, declined.Status)

	connected, err := env.follows.ExistsEitherDirection(alice, bob)
	assert.NoError(t, err)
	assert.False(t, connected)

	// Resolved invitations are history; declining again fails.
	_, err = uc.Decline(inv.ID, bob)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestCountPendingReceived_CachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	uc := NewInvitationUseCase(env.invitations, env.follows, env.directory, redisClient, nil, env.log)

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	carol := env.individual(t, "carol")

	_, err := uc.Send(alice, bob, "")
	assert.NoError(t, err)

	count, err := uc.CountPendingReceived(bob)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Sending a second invitation invalidates the cached count.
	_, err = uc.Send(carol, bob, "")
	assert.NoError(t, err)

	count, err = uc.CountPendingReceived(bob)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
