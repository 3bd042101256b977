package usecase

import (
	"fmt"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
	"collabnet/pkg/queue"
)

type RelationshipUseCase interface {
	Follow(follower, followee entity.ActorRef) (*entity.FollowLink, error)
	Unfollow(follower, followee entity.ActorRef) error
	Get(follower, followee entity.ActorRef) (*entity.FollowLink, error)
	UpdateNotificationPrefs(follower, followee entity.ActorRef, onPost, byEmail bool) error
	RecordVisit(follower, followee entity.ActorRef) error
	RecordEngagement(follower, followee entity.ActorRef, kind entity.EngagementKind) error
	ListFollowing(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error)
	ListFollowers(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error)
	Counts(actor entity.ActorRef) (following int64, followers int64, err error)
}

type relationshipUseCase struct {
	followRepo       persistent.FollowRepository
	subscriptionRepo persistent.SubscriptionRepository
	directory        *persistent.ActorDirectory
	queueClient      *queue.Client
	logger           *logger.Logger
}

func NewRelationshipUseCase(
	followRepo persistent.FollowRepository,
	subscriptionRepo persistent.SubscriptionRepository,
	directory *persistent.ActorDirectory,
	queueClient *queue.Client,
	logger *logger.Logger,
) RelationshipUseCase {
	return &relationshipUseCase{
		followRepo:       followRepo,
		subscriptionRepo: subscriptionRepo,
		directory:        directory,
		queueClient:      queueClient,
		logger:           logger,
	}
}

// Follow creates a one-way link directly, without an invitation. Re-following
// an existing pair returns the existing link unchanged.
func (uc *relationshipUseCase) Follow(follower, followee entity.ActorRef) (*entity.FollowLink, error) {
	if follower.Equal(followee) {
		return nil, entity.ErrSelfReference
	}

	for _, ref := range []entity.ActorRef{follower, followee} {
		exists, err := uc.directory.Exists(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to check actor: %w", err)
		}
		if !exists {
			return nil, entity.ErrNotFound
		}
	}

	link := &entity.FollowLink{
		Follower:     follower,
		Followee:     followee,
		NotifyOnPost: true,
	}
	if err := uc.followRepo.Create(link); err != nil {
		return nil, err
	}

	uc.publishEvent("follow_created", follower, followee, 3)
	return link, nil
}

// Unfollow removes the link unless an active subscription rides on it; the
// subscription has to be terminated or suspended first.
func (uc *relationshipUseCase) Unfollow(follower, followee entity.ActorRef) error {
	if follower.Kind == entity.ActorIndividual && followee.Kind == entity.ActorOrganization {
		active, err := uc.subscriptionRepo.ActiveExists(follower.ID, followee.ID)
		if err != nil {
			return fmt.Errorf("failed to check subscriptions: %w", err)
		}
		if active {
			return entity.ErrSubscriptionBlocksUnfollow
		}
	}

	if err := uc.followRepo.Delete(follower, followee); err != nil {
		return err
	}

	uc.publishEvent("follow_removed", follower, followee, 2)
	return nil
}

func (uc *relationshipUseCase) Get(follower, followee entity.ActorRef) (*entity.FollowLink, error) {
	return uc.followRepo.Get(follower, followee)
}

func (uc *relationshipUseCase) UpdateNotificationPrefs(follower, followee entity.ActorRef, onPost, byEmail bool) error {
	return uc.followRepo.UpdateNotificationPrefs(follower, followee, onPost, byEmail)
}

func (uc *relationshipUseCase) RecordVisit(follower, followee entity.ActorRef) error {
	return uc.followRepo.RecordVisit(follower, followee, time.Now())
}

func (uc *relationshipUseCase) RecordEngagement(follower, followee entity.ActorRef, kind entity.EngagementKind) error {
	if !kind.Valid() {
		return entity.ErrInvalidState
	}
	return uc.followRepo.IncrementEngagement(follower, followee, kind, time.Now())
}

func (uc *relationshipUseCase) ListFollowing(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error) {
	return uc.followRepo.ListFollowing(actor, limit, offset)
}

func (uc *relationshipUseCase) ListFollowers(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error) {
	return uc.followRepo.ListFollowers(actor, limit, offset)
}

func (uc *relationshipUseCase) Counts(actor entity.ActorRef) (int64, int64, error) {
	return uc.followRepo.Counts(actor)
}

func (uc *relationshipUseCase) publishEvent(eventType string, follower, followee entity.ActorRef, priority int) {
	if uc.queueClient == nil {
		return
	}

	task := map[string]interface{}{
		"type":          eventType,
		"follower_id":   follower.ID,
		"follower_kind": string(follower.Kind),
		"followee_id":   followee.ID,
		"followee_kind": string(followee.Kind),
		"priority":      priority,
	}

	go func() {
		if err := uc.queueClient.PublishRelationshipEvent(task); err != nil {
			uc.logger.Error("Failed to publish %s event: %v", eventType, err)
		}
	}()
}
