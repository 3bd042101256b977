package persistent

import (
	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
)

// FeedQuery carries the resolved graph position of one actor plus the caller
// options. The resolver builds it; this repository turns it into a single
// query and delegates execution to the content store.
type FeedQuery struct {
	Actor           entity.ActorRef
	FollowedAuthors []entity.ActorRef
	MemberGroupIDs  []string
	AdminGroupIDs   []string
	OrganizationIDs []string

	// GroupID narrows the feed to one group and enables pinned-first order.
	GroupID   string
	MediaOnly bool
	Limit     int
	Offset    int
}

type FeedRepository interface {
	ContentMatching(q FeedQuery) ([]*entity.Post, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// ContentMatching evaluates the visibility disjunction: a post is eligible if
// any clause admits it — own authorship, followed author's public personal
// post, member tier in a member group, admin tier in an administered group,
// or member tier in the actor's organization.
func (r *feedRepository) ContentMatching(q FeedQuery) ([]*entity.Post, error) {
	memberTiers := []string{string(entity.TierPublic), string(entity.TierMembersOnly)}

	visible := r.db.Where("author_id = ? AND author_kind = ?", q.Actor.ID, q.Actor.Kind)

	if len(q.FollowedAuthors) > 0 {
		authors := make([][]interface{}, len(q.FollowedAuthors))
		for i, a := range q.FollowedAuthors {
			authors[i] = []interface{}{a.ID, string(a.Kind)}
		}
		visible = visible.Or(
			"group_id = '' AND organization_id = '' AND tier = ? AND (author_id, author_kind) IN ?",
			entity.TierPublic, authors,
		)
	}

	if len(q.MemberGroupIDs) > 0 {
		visible = visible.Or("group_id IN ? AND tier IN ?", q.MemberGroupIDs, memberTiers)
	}

	if len(q.AdminGroupIDs) > 0 {
		visible = visible.Or("group_id IN ? AND tier = ?", q.AdminGroupIDs, entity.TierAdminsOnly)
	}

	if len(q.OrganizationIDs) > 0 {
		visible = visible.Or("organization_id IN ? AND tier IN ?", q.OrganizationIDs, memberTiers)
	}

	query := r.db.Model(&model.PostModel{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_images.position ASC")
		}).
		Where(visible)

	if q.GroupID != "" {
		query = query.Where("group_id = ?", q.GroupID).Order("pinned DESC")
	}

	if q.MediaOnly {
		query = query.Where("(media_url <> '' OR EXISTS (SELECT 1 FROM post_images WHERE post_images.post_id = posts.id))")
	}

	query = query.Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit).Offset(q.Offset)
	}

	var items []model.PostModel
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(items))
	for i := range items {
		posts[i] = ToPostEntity(&items[i])
	}
	return posts, nil
}
