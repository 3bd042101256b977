package persistent

import (
	"errors"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	Create(link *entity.FollowLink) error
	Delete(follower, followee entity.ActorRef) error
	Get(follower, followee entity.ActorRef) (*entity.FollowLink, error)
	Exists(follower, followee entity.ActorRef) (bool, error)
	ExistsEitherDirection(a, b entity.ActorRef) (bool, error)
	ListFollowing(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error)
	ListFollowers(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error)
	FolloweeRefs(actor entity.ActorRef) ([]entity.ActorRef, error)
	Counts(actor entity.ActorRef) (following int64, followers int64, err error)
	UpdateNotificationPrefs(follower, followee entity.ActorRef, onPost, byEmail bool) error
	RecordVisit(follower, followee entity.ActorRef, at time.Time) error
	IncrementEngagement(follower, followee entity.ActorRef, kind entity.EngagementKind, at time.Time) error
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func pairScope(db *gorm.DB, follower, followee entity.ActorRef) *gorm.DB {
	return db.Where(
		"follower_id = ? AND follower_kind = ? AND followee_id = ? AND followee_kind = ?",
		follower.ID, follower.Kind, followee.ID, followee.Kind,
	)
}

// Create is idempotent: re-following an existing pair is a no-op, which also
// lets accepted invitations race direct follows without failing.
func (r *followRepository) Create(link *entity.FollowLink) error {
	m := ToFollowLinkModel(link)
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return err
	}

	var stored model.FollowLinkModel
	if err := pairScope(r.db, link.Follower, link.Followee).First(&stored).Error; err != nil {
		return err
	}
	*link = *ToFollowLinkEntity(&stored)
	return nil
}

func (r *followRepository) Delete(follower, followee entity.ActorRef) error {
	res := pairScope(r.db, follower, followee).Delete(&model.FollowLinkModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *followRepository) Get(follower, followee entity.ActorRef) (*entity.FollowLink, error) {
	var m model.FollowLinkModel
	if err := pairScope(r.db, follower, followee).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToFollowLinkEntity(&m), nil
}

func (r *followRepository) Exists(follower, followee entity.ActorRef) (bool, error) {
	var count int64
	err := pairScope(r.db.Model(&model.FollowLinkModel{}), follower, followee).Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ExistsEitherDirection(a, b entity.ActorRef) (bool, error) {
	var count int64
	err := r.db.Model(&model.FollowLinkModel{}).
		Where(
			"(follower_id = ? AND follower_kind = ? AND followee_id = ? AND followee_kind = ?) OR (follower_id = ? AND follower_kind = ? AND followee_id = ? AND followee_kind = ?)",
			a.ID, a.Kind, b.ID, b.Kind,
			b.ID, b.Kind, a.ID, a.Kind,
		).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ListFollowing(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error) {
	var items []model.FollowLinkModel
	query := r.db.Where("follower_id = ? AND follower_kind = ?", actor.ID, actor.Kind).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	links := make([]*entity.FollowLink, len(items))
	for i := range items {
		links[i] = ToFollowLinkEntity(&items[i])
	}
	return links, nil
}

func (r *followRepository) ListFollowers(actor entity.ActorRef, limit, offset int) ([]*entity.FollowLink, error) {
	var items []model.FollowLinkModel
	query := r.db.Where("followee_id = ? AND followee_kind = ?", actor.ID, actor.Kind).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	links := make([]*entity.FollowLink, len(items))
	for i := range items {
		links[i] = ToFollowLinkEntity(&items[i])
	}
	return links, nil
}

func (r *followRepository) FolloweeRefs(actor entity.ActorRef) ([]entity.ActorRef, error) {
	var items []model.FollowLinkModel
	err := r.db.Select("followee_id", "followee_kind").
		Where("follower_id = ? AND follower_kind = ?", actor.ID, actor.Kind).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	refs := make([]entity.ActorRef, len(items))
	for i, it := range items {
		refs[i] = entity.ActorRef{ID: it.FolloweeID, Kind: entity.ActorKind(it.FolloweeKind)}
	}
	return refs, nil
}

func (r *followRepository) Counts(actor entity.ActorRef) (int64, int64, error) {
	var following, followers int64
	if err := r.db.Model(&model.FollowLinkModel{}).
		Where("follower_id = ? AND follower_kind = ?", actor.ID, actor.Kind).
		Count(&following).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&model.FollowLinkModel{}).
		Where("followee_id = ? AND followee_kind = ?", actor.ID, actor.Kind).
		Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	return following, followers, nil
}

func (r *followRepository) UpdateNotificationPrefs(follower, followee entity.ActorRef, onPost, byEmail bool) error {
	res := pairScope(r.db.Model(&model.FollowLinkModel{}), follower, followee).
		Updates(map[string]interface{}{
			"notify_on_post":  onPost,
			"notify_by_email": byEmail,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *followRepository) RecordVisit(follower, followee entity.ActorRef, at time.Time) error {
	res := pairScope(r.db.Model(&model.FollowLinkModel{}), follower, followee).
		Updates(map[string]interface{}{
			"last_visit":       at,
			"last_interaction": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func engagementColumn(kind entity.EngagementKind) string {
	switch kind {
	case entity.EngagementLike:
		return "like_count"
	case entity.EngagementComment:
		return "comment_count"
	case entity.EngagementShare:
		return "share_count"
	}
	return ""
}

func (r *followRepository) IncrementEngagement(follower, followee entity.ActorRef, kind entity.EngagementKind, at time.Time) error {
	column := engagementColumn(kind)
	if column == "" {
		return entity.ErrInvalidState
	}

	res := pairScope(r.db.Model(&model.FollowLinkModel{}), follower, followee).
		Updates(map[string]interface{}{
			column:             clause.Expr{SQL: column + " + ?", Vars: []interface{}{1}},
			"last_interaction": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
