package usecase

import (
	"fmt"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
)

// FeedOptions are the caller-controlled knobs; the rest of the feed query is
// derived from the actor's position in the relationship and membership graph.
type FeedOptions struct {
	GroupID   string
	MediaOnly bool
	Limit     int
	Offset    int
}

const defaultFeedLimit = 20

type FeedUseCase interface {
	Resolve(actor entity.ActorRef, opts FeedOptions) ([]*entity.Post, error)
}

type feedUseCase struct {
	feedRepo       persistent.FeedRepository
	followRepo     persistent.FollowRepository
	membershipRepo persistent.MembershipRepository
	logger         *logger.Logger
}

func NewFeedUseCase(
	feedRepo persistent.FeedRepository,
	followRepo persistent.FollowRepository,
	membershipRepo persistent.MembershipRepository,
	logger *logger.Logger,
) FeedUseCase {
	return &feedUseCase{
		feedRepo:       feedRepo,
		followRepo:     followRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// Resolve gathers the actor's follows and memberships fresh on every call and
// evaluates the visibility rules in one query. Nothing here is cached:
// an unfollow or a membership change is reflected on the next request.
func (uc *feedUseCase) Resolve(actor entity.ActorRef, opts FeedOptions) ([]*entity.Post, error) {
	followed, err := uc.followRepo.FolloweeRefs(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to load follow graph: %w", err)
	}

	groups, err := uc.membershipRepo.GroupMembershipsOf(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to load group memberships: %w", err)
	}

	orgs, err := uc.membershipRepo.OrganizationMembershipsOf(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization memberships: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	q := persistent.FeedQuery{
		Actor:           actor,
		FollowedAuthors: followed,
		MemberGroupIDs:  groups.MemberOf,
		AdminGroupIDs:   groups.AdminOf,
		OrganizationIDs: orgs,
		GroupID:         opts.GroupID,
		MediaOnly:       opts.MediaOnly,
		Limit:           limit,
		Offset:          opts.Offset,
	}

	return uc.feedRepo.ContentMatching(q)
}
