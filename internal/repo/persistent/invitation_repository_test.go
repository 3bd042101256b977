package persistent

import (
	"testing"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestInvitationAcceptWithLinks(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)
	follows := NewFollowRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	inv := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(inv))

	accepted, links, err := invitations.AcceptWithLinks(inv.ID, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, entity.ReviewAccepted, accepted.Status)
	assert.NotNil(t, accepted.RespondedAt)
	assert.Len(t, links, 2)

	// Both directions must exist after acceptance.
	forward, err := follows.Exists(alice, bob)
	assert.NoError(t, err)
	assert.True(t, forward)
	backward, err := follows.Exists(bob, alice)
	assert.NoError(t, err)
	assert.True(t, backward)
}

func TestInvitationAccept_SecondAcceptLoses(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	inv := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(inv))

	_, _, err := invitations.AcceptWithLinks(inv.ID, time.Now())
	assert.NoError(t, err)

	_, _, err = invitations.AcceptWithLinks(inv.ID, time.Now())
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	var count int64
	db.Model(&model.FollowLinkModel{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestInvitationAccept_LapsedPendingIsRejected(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	// Stored as pending but already past its deadline; nothing rewrites the
	// row, the guard just refuses it.
	inv := pendingInvitation(alice, bob, -time.Hour)
	assert.NoError(t, invitations.Create(inv))

	_, _, err := invitations.AcceptWithLinks(inv.ID, time.Now())
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	stored, err := invitations.GetByID(inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReviewPending, stored.Status)
	assert.Equal(t, entity.ReviewExpired, stored.EffectiveStatus(time.Now()))

	var count int64
	db.Model(&model.FollowLinkModel{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInvitationAccept_ExistingLinkSurvives(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)
	follows := NewFollowRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	// Alice already follows Bob one-way before the invitation round-trips.
	existing := &entity.FollowLink{Follower: alice, Followee: bob}
	assert.NoError(t, follows.Create(existing))

	inv := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(inv))

	_, links, err := invitations.AcceptWithLinks(inv.ID, time.Now())
	assert.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, existing.ID, links[0].ID)

	var count int64
	db.Model(&model.FollowLinkModel{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestInvitationMarkDeclined(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	inv := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(inv))

	declined, err := invitations.MarkDeclined(inv.ID, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, entity.ReviewDeclined, declined.Status)

	_, err = invitations.MarkDeclined(inv.ID, time.Now())
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestInvitationDeletePending(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	inv := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(inv))
	assert.NoError(t, invitations.DeletePending(inv.ID))

	_, err := invitations.GetByID(inv.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	assert.ErrorIs(t, invitations.DeletePending(inv.ID), entity.ErrInvalidState)
}

func TestInvitationPendingExists_IgnoresLapsed(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")

	lapsed := pendingInvitation(alice, bob, -time.Hour)
	assert.NoError(t, invitations.Create(lapsed))

	pending, err := invitations.PendingExists(alice, bob, time.Now())
	assert.NoError(t, err)
	assert.False(t, pending)

	fresh := pendingInvitation(alice, bob, 30*24*time.Hour)
	assert.NoError(t, invitations.Create(fresh))

	pending, err = invitations.PendingExists(alice, bob, time.Now())
	assert.NoError(t, err)
	assert.True(t, pending)
}

func TestInvitationLists(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")
	carol := createTestIndividual(t, db, "carol")

	assert.NoError(t, invitations.Create(pendingInvitation(alice, bob, 30*24*time.Hour)))
	assert.NoError(t, invitations.Create(pendingInvitation(alice, carol, 30*24*time.Hour)))
	assert.NoError(t, invitations.Create(pendingInvitation(carol, alice, 30*24*time.Hour)))

	sent, err := invitations.ListSent(alice, "", time.Now(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, sent, 2)

	received, err := invitations.ListReceived(alice, entity.ReviewPending, time.Now(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, received, 1)

	count, err := invitations.CountPendingReceived(bob, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInvitationLists_LapsedReadsAsExpired(t *testing.T) {
	db := setupTestDB(t)
	invitations := NewInvitationRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")
	carol := createTestIndividual(t, db, "carol")

	assert.NoError(t, invitations.Create(pendingInvitation(alice, bob, -time.Hour)))
	assert.NoError(t, invitations.Create(pendingInvitation(carol, bob, 30*24*time.Hour)))

	now := time.Now()

	// The lapsed row stays stored as pending but is not listed as pending.
	pending, err := invitations.ListReceived(bob, entity.ReviewPending, now, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.True(t, pending[0].Sender.Equal(carol))

	expired, err := invitations.ListReceived(bob, entity.ReviewExpired, now, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, expired, 1)
	assert.True(t, expired[0].Sender.Equal(alice))
	assert.Equal(t, entity.ReviewPending, expired[0].Status)
	assert.Equal(t, entity.ReviewExpired, expired[0].EffectiveStatus(now))

	// Unfiltered lists still return everything.
	all, err := invitations.ListReceived(bob, "", now, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
