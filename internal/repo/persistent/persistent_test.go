package persistent

import (
	"testing"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&model.IndividualModel{},
		&model.OrganizationModel{},
		&model.GroupModel{},
		&model.GroupMemberModel{},
		&model.OrganizationMemberModel{},
		&model.FollowLinkModel{},
		&model.FollowInvitationModel{},
		&model.SubscriptionRequestModel{},
		&model.SubscriptionModel{},
		&model.PartnershipPageModel{},
		&model.PostModel{},
		&model.PostImageModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestIndividual(t *testing.T, db *gorm.DB, username string) entity.ActorRef {
	t.Helper()

	ind := &model.IndividualModel{
		Username: username,
		Email:    username + "@test.com",
		Password: "hashed",
		IsActive: true,
	}
	if err := db.Create(ind).Error; err != nil {
		t.Fatalf("create individual: %v", err)
	}
	return entity.IndividualRef(ind.ID)
}

func createTestOrganization(t *testing.T, db *gorm.DB, name, sector string) entity.ActorRef {
	t.Helper()

	org := &model.OrganizationModel{
		Name:     name,
		Email:    name + "@test.com",
		Sector:   sector,
		IsActive: true,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return entity.OrganizationRef(org.ID)
}

func createTestGroup(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()

	group := &model.GroupModel{Name: name}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	return group.ID
}

func addGroupMember(t *testing.T, db *gorm.DB, groupID string, member entity.ActorRef, role string) {
	t.Helper()

	row := &model.GroupMemberModel{
		GroupID:    groupID,
		MemberID:   member.ID,
		MemberKind: string(member.Kind),
		Role:       role,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("add group member: %v", err)
	}
}

func addOrganizationMember(t *testing.T, db *gorm.DB, organizationID, individualID string) {
	t.Helper()

	row := &model.OrganizationMemberModel{
		OrganizationID: organizationID,
		IndividualID:   individualID,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("add organization member: %v", err)
	}
}

func pendingInvitation(sender, receiver entity.ActorRef, ttl time.Duration) *entity.FollowInvitation {
	return &entity.FollowInvitation{
		Sender:    sender,
		Receiver:  receiver,
		Status:    entity.ReviewPending,
		Message:   "hello",
		ExpiresAt: time.Now().Add(ttl),
	}
}
