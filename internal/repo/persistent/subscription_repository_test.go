package persistent

import (
	"testing"

	"collabnet/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionCreateWithPage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	acme := createTestOrganization(t, db, "acme", "tech")

	sub, page := newTestProvisioning(alice, acme)
	sub, page, err := repo.CreateWithPage(sub, page)
	assert.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, page.ID, sub.PartnershipPageID)
	assert.Equal(t, sub.ID, page.SubscriptionID)

	byPage, err := repo.GetPageBySubscription(sub.ID)
	assert.NoError(t, err)
	assert.Equal(t, page.ID, byPage.ID)
}

func TestSubscriptionCreateWithPage_DuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	acme := createTestOrganization(t, db, "acme", "tech")

	sub, page := newTestProvisioning(alice, acme)
	sub, _, err := repo.CreateWithPage(sub, page)
	assert.NoError(t, err)

	// Even a terminated subscription occupies the pair slot.
	assert.NoError(t, repo.UpdateFields(sub.ID,
		map[string]interface{}{"status": entity.SubscriptionInactive},
		[]entity.SubscriptionStatus{entity.SubscriptionActive}))

	dup, dupPage := newTestProvisioning(alice, acme)
	_, _, err = repo.CreateWithPage(dup, dupPage)
	assert.ErrorIs(t, err, entity.ErrAlreadySubscribed)
}

func TestSubscriptionUpdateFields_GuardedByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	acme := createTestOrganization(t, db, "acme", "tech")

	sub, page := newTestProvisioning(alice, acme)
	sub, _, err := repo.CreateWithPage(sub, page)
	assert.NoError(t, err)

	// active -> suspended succeeds.
	assert.NoError(t, repo.UpdateFields(sub.ID,
		map[string]interface{}{"status": entity.SubscriptionSuspended},
		[]entity.SubscriptionStatus{entity.SubscriptionActive}))

	// A second suspend no longer matches the guard.
	err = repo.UpdateFields(sub.ID,
		map[string]interface{}{"status": entity.SubscriptionSuspended},
		[]entity.SubscriptionStatus{entity.SubscriptionActive})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	stored, err := repo.GetByID(sub.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionSuspended, stored.Status)
}

func TestSubscriptionActiveExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	acme := createTestOrganization(t, db, "acme", "tech")

	sub, page := newTestProvisioning(alice, acme)
	sub, _, err := repo.CreateWithPage(sub, page)
	assert.NoError(t, err)

	active, err := repo.ActiveExists(alice.ID, acme.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	assert.NoError(t, repo.UpdateFields(sub.ID,
		map[string]interface{}{"status": entity.SubscriptionSuspended},
		[]entity.SubscriptionStatus{entity.SubscriptionActive}))

	active, err = repo.ActiveExists(alice.ID, acme.ID)
	assert.NoError(t, err)
	assert.False(t, active)

	// The pair is still occupied regardless of status.
	exists, err := repo.ExistsForPair(alice.ID, acme.ID)
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestSubscriptionRecordPageTransaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	acme := createTestOrganization(t, db, "acme", "tech")

	sub, page := newTestProvisioning(alice, acme)
	_, page, err := repo.CreateWithPage(sub, page)
	assert.NoError(t, err)

	assert.NoError(t, repo.RecordPageTransaction(page.ID, 49.90))
	assert.NoError(t, repo.RecordPageTransaction(page.ID, 10.10))

	stored, err := repo.GetPage(page.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.TransactionCount)
	assert.InDelta(t, 60.0, stored.TotalAmount, 0.001)

	assert.ErrorIs(t, repo.RecordPageTransaction("missing-page", 1), entity.ErrNotFound)
}

func TestSubscriptionLists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	alice := createTestIndividual(t, db, "alice")
	bob := createTestIndividual(t, db, "bob")
	acme := createTestOrganization(t, db, "acme", "tech")
	nimbus := createTestOrganization(t, db, "nimbus", "cloud")

	for _, pair := range [][2]entity.ActorRef{{alice, acme}, {alice, nimbus}, {bob, acme}} {
		sub, page := newTestProvisioning(pair[0], pair[1])
		_, _, err := repo.CreateWithPage(sub, page)
		assert.NoError(t, err)
	}

	byAlice, err := repo.ListByIndividual(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, byAlice, 2)

	byAcme, err := repo.ListByOrganization(acme.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, byAcme, 2)
}
