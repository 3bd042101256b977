package persistent

import (
	"errors"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvitationRepository interface {
	Create(inv *entity.FollowInvitation) error
	GetByID(id string) (*entity.FollowInvitation, error)
	PendingExists(sender, receiver entity.ActorRef, now time.Time) (bool, error)
	AcceptWithLinks(id string, now time.Time) (*entity.FollowInvitation, []*entity.FollowLink, error)
	MarkDeclined(id string, now time.Time) (*entity.FollowInvitation, error)
	DeletePending(id string) error
	ListSent(actor entity.ActorRef, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.FollowInvitation, error)
	ListReceived(actor entity.ActorRef, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.FollowInvitation, error)
	CountPendingReceived(actor entity.ActorRef, now time.Time) (int64, error)
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(inv *entity.FollowInvitation) error {
	m := ToInvitationModel(inv)
	if err := r.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicatePending
		}
		return err
	}
	*inv = *ToInvitationEntity(m)
	return nil
}

func (r *invitationRepository) GetByID(id string) (*entity.FollowInvitation, error) {
	var m model.FollowInvitationModel
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToInvitationEntity(&m), nil
}

// PendingExists only counts pending invitations that have not lapsed; an
// expired pending row does not block a fresh invitation.
func (r *invitationRepository) PendingExists(sender, receiver entity.ActorRef, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.FollowInvitationModel{}).
		Where("sender_id = ? AND sender_kind = ? AND receiver_id = ? AND receiver_kind = ?",
			sender.ID, sender.Kind, receiver.ID, receiver.Kind).
		Where("status = ? AND expires_at > ?", entity.ReviewPending, now).
		Count(&count).Error
	return count > 0, err
}

// AcceptWithLinks flips the invitation to accepted and creates both follow
// directions as one transaction. The status flip is guarded inside the
// transaction so concurrent accepts resolve to exactly one winner.
func (r *invitationRepository) AcceptWithLinks(id string, now time.Time) (*entity.FollowInvitation, []*entity.FollowLink, error) {
	var accepted *entity.FollowInvitation
	var links []*entity.FollowLink

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.FollowInvitationModel{}).
			Where("id = ? AND status = ? AND expires_at > ?", id, entity.ReviewPending, now).
			Updates(map[string]interface{}{
				"status":       entity.ReviewAccepted,
				"responded_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrInvalidState
		}

		var m model.FollowInvitationModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		accepted = ToInvitationEntity(&m)

		pairs := [][2]entity.ActorRef{
			{accepted.Sender, accepted.Receiver},
			{accepted.Receiver, accepted.Sender},
		}
		for _, p := range pairs {
			link := &model.FollowLinkModel{
				FollowerID:   p[0].ID,
				FollowerKind: string(p[0].Kind),
				FolloweeID:   p[1].ID,
				FolloweeKind: string(p[1].Kind),
				NotifyOnPost: true,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
				return err
			}

			var stored model.FollowLinkModel
			if err := pairScope(tx, p[0], p[1]).First(&stored).Error; err != nil {
				return err
			}
			links = append(links, ToFollowLinkEntity(&stored))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return accepted, links, nil
}

func (r *invitationRepository) MarkDeclined(id string, now time.Time) (*entity.FollowInvitation, error) {
	res := r.db.Model(&model.FollowInvitationModel{}).
		Where("id = ? AND status = ? AND expires_at > ?", id, entity.ReviewPending, now).
		Updates(map[string]interface{}{
			"status":       entity.ReviewDeclined,
			"responded_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, entity.ErrInvalidState
	}
	return r.GetByID(id)
}

func (r *invitationRepository) DeletePending(id string) error {
	res := r.db.Where("id = ? AND status = ?", id, entity.ReviewPending).
		Delete(&model.FollowInvitationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrInvalidState
	}
	return nil
}

func (r *invitationRepository) ListSent(actor entity.ActorRef, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.FollowInvitation, error) {
	query := r.db.Where("sender_id = ? AND sender_kind = ?", actor.ID, actor.Kind)
	return r.list(query, status, now, limit, offset)
}

func (r *invitationRepository) ListReceived(actor entity.ActorRef, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.FollowInvitation, error) {
	query := r.db.Where("receiver_id = ? AND receiver_kind = ?", actor.ID, actor.Kind)
	return r.list(query, status, now, limit, offset)
}

// list filters by effective status: a stored pending row past expires_at
// matches "expired", not "pending".
func (r *invitationRepository) list(query *gorm.DB, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.FollowInvitation, error) {
	switch status {
	case "":
	case entity.ReviewPending:
		query = query.Where("status = ? AND expires_at > ?", entity.ReviewPending, now)
	case entity.ReviewExpired:
		query = query.Where("status = ? AND expires_at <= ?", entity.ReviewPending, now)
	default:
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var items []model.FollowInvitationModel
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	invitations := make([]*entity.FollowInvitation, len(items))
	for i := range items {
		invitations[i] = ToInvitationEntity(&items[i])
	}
	return invitations, nil
}

func (r *invitationRepository) CountPendingReceived(actor entity.ActorRef, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.FollowInvitationModel{}).
		Where("receiver_id = ? AND receiver_kind = ?", actor.ID, actor.Kind).
		Where("status = ? AND expires_at > ?", entity.ReviewPending, now).
		Count(&count).Error
	return count, err
}
