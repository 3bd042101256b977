package persistent

import (
	"errors"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AcceptedRequest is everything provisioned by accepting a direct
// subscription request, created as one atomic unit.
type AcceptedRequest struct {
	Request         *entity.SubscriptionRequest
	FollowLinks     []*entity.FollowLink
	Subscription    *entity.Subscription
	PartnershipPage *entity.PartnershipPage
}

type SubscriptionRequestRepository interface {
	Create(req *entity.SubscriptionRequest) error
	GetByID(id string) (*entity.SubscriptionRequest, error)
	PendingExists(individualID, organizationID string, now time.Time) (bool, error)
	Accept(id string, sub *entity.Subscription, page *entity.PartnershipPage, now time.Time) (*AcceptedRequest, error)
	MarkDeclined(id string, now time.Time) (*entity.SubscriptionRequest, error)
	DeletePending(id string) error
	ListByIndividual(individualID string, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.SubscriptionRequest, error)
	ListByOrganization(organizationID string, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.SubscriptionRequest, error)
	CountPendingForOrganization(organizationID string, now time.Time) (int64, error)
}

type subscriptionRequestRepository struct {
	db *gorm.DB
}

func NewSubscriptionRequestRepository(db *gorm.DB) SubscriptionRequestRepository {
	return &subscriptionRequestRepository{db: db}
}

func (r *subscriptionRequestRepository) Create(req *entity.SubscriptionRequest) error {
	m := ToSubscriptionRequestModel(req)
	if err := r.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicatePending
		}
		return err
	}
	*req = *ToSubscriptionRequestEntity(m)
	return nil
}

func (r *subscriptionRequestRepository) GetByID(id string) (*entity.SubscriptionRequest, error) {
	var m model.SubscriptionRequestModel
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToSubscriptionRequestEntity(&m), nil
}

func (r *subscriptionRequestRepository) PendingExists(individualID, organizationID string, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionRequestModel{}).
		Where("individual_id = ? AND organization_id = ?", individualID, organizationID).
		Where("status = ? AND expires_at > ?", entity.ReviewPending, now).
		Count(&count).Error
	return count > 0, err
}

// Accept provisions the whole paid relationship in one transaction: the
// request flips to accepted, both follow directions are created, then the
// subscription and its partnership page, and finally the page id is written
// back onto the subscription. Any failure rolls the whole unit back.
//
// The subscription's unique (individual, organization) index turns a race
// between two accepts or a concurrent upgrade-from-follow into
// ErrAlreadySubscribed for the loser.
func (r *subscriptionRequestRepository) Accept(id string, sub *entity.Subscription, page *entity.PartnershipPage, now time.Time) (*AcceptedRequest, error) {
	var out AcceptedRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SubscriptionRequestModel{}).
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

		var reqModel model.SubscriptionRequestModel
		if err := tx.Where("id = ?", id).First(&reqModel).Error; err != nil {
			return err
		}
		out.Request = ToSubscriptionRequestEntity(&reqModel)

		individual := entity.IndividualRef(reqModel.IndividualID)
		organization := entity.OrganizationRef(reqModel.OrganizationID)
		pairs := [][2]entity.ActorRef{
			{individual, organization},
			{organization, individual},
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
			out.FollowLinks = append(out.FollowLinks, ToFollowLinkEntity(&stored))
		}

		subModel := ToSubscriptionModel(sub)
		if err := tx.Create(subModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return entity.ErrAlreadySubscribed
			}
			return err
		}

		pageModel := ToPartnershipPageModel(page)
		pageModel.SubscriptionID = subModel.ID
		if err := tx.Create(pageModel).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.SubscriptionModel{}).
			Where("id = ?", subModel.ID).
			Update("partnership_page_id", pageModel.ID).Error; err != nil {
			return err
		}
		subModel.PartnershipPageID = pageModel.ID

		out.Subscription = ToSubscriptionEntity(subModel)
		out.PartnershipPage = ToPartnershipPageEntity(pageModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *subscriptionRequestRepository) MarkDeclined(id string, now time.Time) (*entity.SubscriptionRequest, error) {
	res := r.db.Model(&model.SubscriptionRequestModel{}).
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

func (r *subscriptionRequestRepository) DeletePending(id string) error {
	res := r.db.Where("id = ? AND status = ?", id, entity.ReviewPending).
		Delete(&model.SubscriptionRequestModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrInvalidState
	}
	return nil
}

func (r *subscriptionRequestRepository) ListByIndividual(individualID string, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.SubscriptionRequest, error) {
	return r.list(r.db.Where("individual_id = ?", individualID), status, now, limit, offset)
}

func (r *subscriptionRequestRepository) ListByOrganization(organizationID string, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.SubscriptionRequest, error) {
	return r.list(r.db.Where("organization_id = ?", organizationID), status, now, limit, offset)
}

// list filters by effective status: a stored pending row past expires_at
// matches "expired", not "pending".
func (r *subscriptionRequestRepository) list(query *gorm.DB, status entity.ReviewStatus, now time.Time, limit, offset int) ([]*entity.SubscriptionRequest, error) {
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

	var items []model.SubscriptionRequestModel
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	requests := make([]*entity.SubscriptionRequest, len(items))
	for i := range items {
		requests[i] = ToSubscriptionRequestEntity(&items[i])
	}
	return requests, nil
}

func (r *subscriptionRequestRepository) CountPendingForOrganization(organizationID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionRequestModel{}).
		Where("organization_id = ?", organizationID).
		Where("status = ? AND expires_at > ?", entity.ReviewPending, now).
		Count(&count).Error
	return count, err
}
