package persistent

import (
	"errors"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	GetByID(id string) (*entity.Subscription, error)
	GetByPair(individualID, organizationID string) (*entity.Subscription, error)
	ExistsForPair(individualID, organizationID string) (bool, error)
	ActiveExists(individualID, organizationID string) (bool, error)
	CreateWithPage(sub *entity.Subscription, page *entity.PartnershipPage) (*entity.Subscription, *entity.PartnershipPage, error)
	UpdateFields(id string, updates map[string]interface{}, fromStatuses []entity.SubscriptionStatus) error
	ListByIndividual(individualID string, limit, offset int) ([]*entity.Subscription, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Subscription, error)
	GetPage(pageID string) (*entity.PartnershipPage, error)
	GetPageBySubscription(subscriptionID string) (*entity.PartnershipPage, error)
	RecordPageTransaction(pageID string, amount float64) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByID(id string) (*entity.Subscription, error) {
	var m model.SubscriptionModel
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToSubscriptionEntity(&m), nil
}

func (r *subscriptionRepository) GetByPair(individualID, organizationID string) (*entity.Subscription, error) {
	var m model.SubscriptionModel
	err := r.db.Where("individual_id = ? AND organization_id = ?", individualID, organizationID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToSubscriptionEntity(&m), nil
}

func (r *subscriptionRepository) ExistsForPair(individualID, organizationID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionModel{}).
		Where("individual_id = ? AND organization_id = ?", individualID, organizationID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) ActiveExists(individualID, organizationID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionModel{}).
		Where("individual_id = ? AND organization_id = ? AND status = ?",
			individualID, organizationID, entity.SubscriptionActive).
		Count(&count).Error
	return count > 0, err
}

// CreateWithPage provisions a subscription and its partnership page as one
// transaction, backfilling partnership_page_id. Used by upgrade-from-follow,
// where the follow link already exists and is left untouched.
func (r *subscriptionRepository) CreateWithPage(sub *entity.Subscription, page *entity.PartnershipPage) (*entity.Subscription, *entity.PartnershipPage, error) {
	subModel := ToSubscriptionModel(sub)
	pageModel := ToPartnershipPageModel(page)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return entity.ErrAlreadySubscribed
			}
			return err
		}

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
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ToSubscriptionEntity(subModel), ToPartnershipPageEntity(pageModel), nil
}

// UpdateFields applies updates only while the row is in one of fromStatuses,
// re-checked at write time so concurrent transitions get exactly one winner.
func (r *subscriptionRepository) UpdateFields(id string, updates map[string]interface{}, fromStatuses []entity.SubscriptionStatus) error {
	statuses := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		statuses[i] = string(s)
	}

	res := r.db.Model(&model.SubscriptionModel{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrInvalidState
	}
	return nil
}

func (r *subscriptionRepository) ListByIndividual(individualID string, limit, offset int) ([]*entity.Subscription, error) {
	return r.list(r.db.Where("individual_id = ?", individualID), limit, offset)
}

func (r *subscriptionRepository) ListByOrganization(organizationID string, limit, offset int) ([]*entity.Subscription, error) {
	return r.list(r.db.Where("organization_id = ?", organizationID), limit, offset)
}

func (r *subscriptionRepository) list(query *gorm.DB, limit, offset int) ([]*entity.Subscription, error) {
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var items []model.SubscriptionModel
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	subs := make([]*entity.Subscription, len(items))
	for i := range items {
		subs[i] = ToSubscriptionEntity(&items[i])
	}
	return subs, nil
}

func (r *subscriptionRepository) GetPage(pageID string) (*entity.PartnershipPage, error) {
	var m model.PartnershipPageModel
	if err := r.db.Where("id = ?", pageID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToPartnershipPageEntity(&m), nil
}

func (r *subscriptionRepository) GetPageBySubscription(subscriptionID string) (*entity.PartnershipPage, error) {
	var m model.PartnershipPageModel
	if err := r.db.Where("subscription_id = ?", subscriptionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToPartnershipPageEntity(&m), nil
}

func (r *subscriptionRepository) RecordPageTransaction(pageID string, amount float64) error {
	res := r.db.Model(&model.PartnershipPageModel{}).
		Where("id = ?", pageID).
		Updates(map[string]interface{}{
			"transaction_count": clause.Expr{SQL: "transaction_count + ?", Vars: []interface{}{1}},
			"total_amount":      clause.Expr{SQL: "total_amount + ?", Vars: []interface{}{amount}},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
