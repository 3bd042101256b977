package usecase

import (
	"testing"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The use case tests run against real repositories on an in-memory store;
// the queue client is nil so events are no-ops.

type testEnv struct {
	db            *gorm.DB
	follows       persistent.FollowRepository
	invitations   persistent.InvitationRepository
	requests      persistent.SubscriptionRequestRepository
	subscriptions persistent.SubscriptionRepository
	memberships   persistent.MembershipRepository
	feed          persistent.FeedRepository
	posts         persistent.PostRepository
	individuals   persistent.IndividualRepository
	organizations persistent.OrganizationRepository
	directory     *persistent.ActorDirectory
	log           *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
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

	individuals := persistent.NewIndividualRepository(db)
	organizations := persistent.NewOrganizationRepository(db)

	return &testEnv{
		db:            db,
		follows:       persistent.NewFollowRepository(db),
		invitations:   persistent.NewInvitationRepository(db),
		requests:      persistent.NewSubscriptionRequestRepository(db),
		subscriptions: persistent.NewSubscriptionRepository(db),
		memberships:   persistent.NewMembershipRepository(db),
		feed:          persistent.NewFeedRepository(db),
		posts:         persistent.NewPostRepository(db),
		individuals:   individuals,
		organizations: organizations,
		directory:     persistent.NewActorDirectory(individuals, organizations),
		log:           logger.New(),
	}
}

func (e *testEnv) individual(t *testing.T, username string) entity.ActorRef {
	t.Helper()

	ind := &model.IndividualModel{
		Username: username,
		Email:    username + "@test.com",
		Password: "hashed",
		IsActive: true,
	}
	if err := e.db.Create(ind).Error; err != nil {
		t.Fatalf("create individual: %v", err)
	}
	return entity.IndividualRef(ind.ID)
}

func (e *testEnv) organization(t *testing.T, name, sector string) entity.ActorRef {
	t.Helper()

	org := &model.OrganizationModel{
		Name:     name,
		Email:    name + "@test.com",
		Sector:   sector,
		IsActive: true,
	}
	if err := e.db.Create(org).Error; err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return entity.OrganizationRef(org.ID)
}

func (e *testEnv) group(t *testing.T, name string, members map[entity.ActorRef]string) string {
	t.Helper()

	group := &model.GroupModel{Name: name}
	if err := e.db.Create(group).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	for member, role := range members {
		row := &model.GroupMemberModel{
			GroupID:    group.ID,
			MemberID:   member.ID,
			MemberKind: string(member.Kind),
			Role:       role,
		}
		if err := e.db.Create(row).Error; err != nil {
			t.Fatalf("add group member: %v", err)
		}
	}
	return group.ID
}

func (e *testEnv) relationships() RelationshipUseCase {
	return NewRelationshipUseCase(e.follows, e.subscriptions, e.directory, nil, e.log)
}

func (e *testEnv) invitationsUC() InvitationUseCase {
	return NewInvitationUseCase(e.invitations, e.follows, e.directory, nil, nil, e.log)
}

func (e *testEnv) requestsUC() SubscriptionRequestUseCase {
	return NewSubscriptionRequestUseCase(e.requests, e.subscriptions, e.individuals, e.organizations, nil, e.log)
}

func (e *testEnv) subscriptionsUC() SubscriptionUseCase {
	return NewSubscriptionUseCase(e.subscriptions, e.follows, e.individuals, e.organizations, nil, e.log)
}

func (e *testEnv) feedUC() FeedUseCase {
	return NewFeedUseCase(e.feed, e.follows, e.memberships, e.log)
}

func (e *testEnv) contentUC() ContentUseCase {
	return NewContentUseCase(e.posts, e.memberships, nil, e.log)
}

func (e *testEnv) activeSubscription(t *testing.T, individual, organization entity.ActorRef) *entity.Subscription {
	t.Helper()

	sub := &entity.Subscription{
		IndividualID:   individual.ID,
		OrganizationID: organization.ID,
		Status:         entity.SubscriptionActive,
		Plan:           entity.PlanStandard,
		PeriodStart:    time.Now(),
	}
	page := &entity.PartnershipPage{
		Title:      "test partnership",
		Visibility: entity.PartnershipVisibilityPrivate,
	}
	sub, _, err := e.subscriptions.CreateWithPage(sub, page)
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}
