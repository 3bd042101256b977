package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
	"collabnet/pkg/queue"

	"github.com/redis/go-redis/v9"
)

// Invitations lapse 30 days after creation; expiry is computed at read time,
// never written back.
const reviewTTL = 30 * 24 * time.Hour

const pendingCountTTL = time.Minute

type InvitationUseCase interface {
	Send(sender, receiver entity.ActorRef, message string) (*entity.FollowInvitation, error)
	Accept(invitationID string, actingActor entity.ActorRef) (*entity.FollowInvitation, []*entity.FollowLink, error)
	Decline(invitationID string, actingActor entity.ActorRef) (*entity.FollowInvitation, error)
	Cancel(invitationID string, sender entity.ActorRef) error
	ListSent(actor entity.ActorRef, status entity.ReviewStatus, limit, offset int) ([]*entity.FollowInvitation, error)
	ListReceived(actor entity.ActorRef, status entity.ReviewStatus, limit, offset int) ([]*entity.FollowInvitation, error)
	CountPendingReceived(actor entity.ActorRef) (int64, error)
}

type invitationUseCase struct {
	invitationRepo persistent.InvitationRepository
	followRepo     persistent.FollowRepository
	directory      *persistent.ActorDirectory
	redisClient    *redis.Client
	queueClient    *queue.Client
	logger         *logger.Logger
}

func NewInvitationUseCase(
	invitationRepo persistent.InvitationRepository,
	followRepo persistent.FollowRepository,
	directory *persistent.ActorDirectory,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) InvitationUseCase {
	return &invitationUseCase{
		invitationRepo: invitationRepo,
		followRepo:     followRepo,
		directory:      directory,
		redisClient:    redisClient,
		queueClient:    queueClient,
		logger:         logger,
	}
}

func (uc *invitationUseCase) Send(sender, receiver entity.ActorRef, message string) (*entity.FollowInvitation, error) {
	if sender.Equal(receiver) {
		return nil, entity.ErrSelfReference
	}

	for _, ref := range []entity.ActorRef{sender, receiver} {
		exists, err := uc.directory.Exists(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to check actor: %w", err)
		}
		if !exists {
			return nil, entity.ErrNotFound
		}
	}

	now := time.Now()
	pending, err := uc.invitationRepo.PendingExists(sender, receiver, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return nil, entity.ErrDuplicatePending
	}

	connected, err := uc.followRepo.ExistsEitherDirection(sender, receiver)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow graph: %w", err)
	}
	if connected {
		return nil, entity.ErrAlreadyConnected
	}

	invitation := &entity.FollowInvitation{
		Sender:    sender,
		Receiver:  receiver,
		Status:    entity.ReviewPending,
		Message:   message,
		ExpiresAt: now.Add(reviewTTL),
	}
	if err := uc.invitationRepo.Create(invitation); err != nil {
		return nil, err
	}

	uc.invalidatePendingCount(receiver)
	uc.publishEvent("invitation_sent", invitation, 5)

	return invitation, nil
}

func (uc *invitationUseCase) Accept(invitationID string, actingActor entity.ActorRef) (*entity.FollowInvitation, []*entity.FollowLink, error) {
	invitation, err := uc.invitationRepo.GetByID(invitationID)
	if err != nil {
		return nil, nil, err
	}
	if !invitation.Receiver.Equal(actingActor) {
		return nil, nil, entity.ErrNotAddressedToCaller
	}

	now := time.Now()
	if !invitation.CanBeAccepted(now) {
		return nil, nil, entity.ErrInvalidState
	}

	// The repository re-checks pending state inside the transaction, so a
	// concurrent accept loses with ErrInvalidState rather than duplicating
	// links.
	accepted, links, err := uc.invitationRepo.AcceptWithLinks(invitationID, now)
	if err != nil {
		return nil, nil, err
	}

	uc.invalidatePendingCount(actingActor)
	uc.publishEvent("invitation_accepted", accepted, 5)

	return accepted, links, nil
}

func (uc *invitationUseCase) Decline(invitationID string, actingActor entity.ActorRef) (*entity.FollowInvitation, error) {
	invitation, err := uc.invitationRepo.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if !invitation.Receiver.Equal(actingActor) {
		return nil, entity.ErrNotAddressedToCaller
	}

	now := time.Now()
	if !invitation.CanBeAccepted(now) {
		return nil, entity.ErrInvalidState
	}

	declined, err := uc.invitationRepo.MarkDeclined(invitationID, now)
	if err != nil {
		return nil, err
	}

	uc.invalidatePendingCount(actingActor)
	uc.publishEvent("invitation_declined", declined, 3)

	return declined, nil
}

func (uc *invitationUseCase) Cancel(invitationID string, sender entity.ActorRef) error {
	invitation, err := uc.invitationRepo.GetByID(invitationID)
	if err != nil {
		return err
	}
	if !invitation.Sender.Equal(sender) {
		return entity.ErrNotAddressedToCaller
	}
	if invitation.Status != entity.ReviewPending {
		return entity.ErrInvalidState
	}

	if err := uc.invitationRepo.DeletePending(invitationID); err != nil {
		return err
	}

	uc.invalidatePendingCount(invitation.Receiver)
	return nil
}

func (uc *invitationUseCase) ListSent(actor entity.ActorRef, status entity.ReviewStatus, limit, offset int) ([]*entity.FollowInvitation, error) {
	return uc.invitationRepo.ListSent(actor, status, time.Now(), limit, offset)
}

func (uc *invitationUseCase) ListReceived(actor entity.ActorRef, status entity.ReviewStatus, limit, offset int) ([]*entity.FollowInvitation, error) {
	return uc.invitationRepo.ListReceived(actor, status, time.Now(), limit, offset)
}

func (uc *invitationUseCase) CountPendingReceived(actor entity.ActorRef) (int64, error) {
	ctx := context.Background()
	cacheKey := uc.pendingCountKey(actor)

	if uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := uc.invitationRepo.CountPendingReceived(actor, time.Now())
	if err != nil {
		return 0, err
	}

	if uc.redisClient != nil {
		uc.redisClient.Set(ctx, cacheKey, strconv.FormatInt(count, 10), pendingCountTTL)
	}

	return count, nil
}

func (uc *invitationUseCase) pendingCountKey(actor entity.ActorRef) string {
	return fmt.Sprintf("invitations:pending:%s:%s", actor.Kind, actor.ID)
}

func (uc *invitationUseCase) invalidatePendingCount(receiver entity.ActorRef) {
	if uc.redisClient == nil {
		return
	}
	uc.redisClient.Del(context.Background(), uc.pendingCountKey(receiver))
}

func (uc *invitationUseCase) publishEvent(eventType string, invitation *entity.FollowInvitation, priority int) {
	if uc.queueClient == nil {
		return
	}

	task := map[string]interface{}{
		"type":          eventType,
		"invitation_id": invitation.ID,
		"sender_id":     invitation.Sender.ID,
		"sender_kind":   string(invitation.Sender.Kind),
		"receiver_id":   invitation.Receiver.ID,
		"receiver_kind": string(invitation.Receiver.Kind),
		"priority":      priority,
	}

	go func() {
		if err := uc.queueClient.PublishRelationshipEvent(task); err != nil {
			uc.logger.Error("Failed to publish %s event: %v (invitation_id=%s)", eventType, err, invitation.ID)
		}
	}()
}
