package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
	"collabnet/pkg/queue"
)

// SubscriptionPatch carries the fields the owning individual may change
// while the subscription is active. Nil means leave unchanged.
type SubscriptionPatch struct {
	Plan   *entity.SubscriptionPlan
	Sector *string
	Role   *string
}

type SubscriptionUseCase interface {
	UpgradeFromFollow(individualID, organizationID string, input SubscriptionRequestInput) (*entity.Subscription, *entity.PartnershipPage, error)
	Update(id, callerIndividualID string, patch SubscriptionPatch) (*entity.Subscription, error)
	Suspend(id string, actor entity.ActorRef) (*entity.Subscription, error)
	Reactivate(id string, actor entity.ActorRef) (*entity.Subscription, error)
	Terminate(id, individualID string) (*entity.Subscription, error)
	UpdatePermissions(id, individualID string, permissions []string) (*entity.Subscription, error)
	GetByID(id string) (*entity.Subscription, error)
	GetPage(pageID string) (*entity.PartnershipPage, error)
	GetPageForSubscription(subscriptionID string) (*entity.PartnershipPage, error)
	RecordPageTransaction(pageID string, amount float64) error
	ListByIndividual(individualID string, limit, offset int) ([]*entity.Subscription, error)
	ListByOrganization(organizationID string, limit, offset int) ([]*entity.Subscription, error)
}

type subscriptionUseCase struct {
	subscriptionRepo persistent.SubscriptionRepository
	followRepo       persistent.FollowRepository
	individualRepo   persistent.IndividualRepository
	organizationRepo persistent.OrganizationRepository
	queueClient      *queue.Client
	logger           *logger.Logger
}

func NewSubscriptionUseCase(
	subscriptionRepo persistent.SubscriptionRepository,
	followRepo persistent.FollowRepository,
	individualRepo persistent.IndividualRepository,
	organizationRepo persistent.OrganizationRepository,
	queueClient *queue.Client,
	logger *logger.Logger,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		followRepo:       followRepo,
		individualRepo:   individualRepo,
		organizationRepo: organizationRepo,
		queueClient:      queueClient,
		logger:           logger,
	}
}

// UpgradeFromFollow turns an existing individual→organization follow into a
// paid subscription. The follow link must already exist and is left
// untouched; the subscription and its partnership page are created together.
func (uc *subscriptionUseCase) UpgradeFromFollow(individualID, organizationID string, input SubscriptionRequestInput) (*entity.Subscription, *entity.PartnershipPage, error) {
	follows, err := uc.followRepo.Exists(
		entity.IndividualRef(individualID),
		entity.OrganizationRef(organizationID),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check follow graph: %w", err)
	}
	if !follows {
		return nil, nil, entity.ErrNotFound
	}

	subscribed, err := uc.subscriptionRepo.ExistsForPair(individualID, organizationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	if subscribed {
		return nil, nil, entity.ErrAlreadySubscribed
	}

	plan := input.Plan
	if plan == "" {
		plan = entity.PlanStandard
	}
	if !plan.Valid() {
		return nil, nil, entity.ErrInvalidState
	}

	sector := input.Sector
	if sector == "" {
		sector, err = uc.organizationRepo.Sector(organizationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up organization sector: %w", err)
		}
	}

	title := input.PartnershipTitle
	if title == "" {
		orgName, err := uc.organizationRepo.Name(organizationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up organization: %w", err)
		}
		individualName, err := uc.individualRepo.Name(individualID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up individual: %w", err)
		}
		title = fmt.Sprintf("%s - %s", orgName, individualName)
	}

	now := time.Now()
	sub := &entity.Subscription{
		IndividualID:   individualID,
		OrganizationID: organizationID,
		Status:         entity.SubscriptionActive,
		Plan:           plan,
		Sector:         sector,
		Role:           input.Role,
		PeriodStart:    now,
	}
	page := &entity.PartnershipPage{
		Title:       title,
		Description: input.PartnershipDescription,
		Sector:      sector,
		Visibility:  entity.PartnershipVisibilityPrivate,
	}

	sub, page, err = uc.subscriptionRepo.CreateWithPage(sub, page)
	if err != nil {
		return nil, nil, err
	}

	uc.publishEvent("subscription_activated", sub, 7)
	return sub, page, nil
}

func (uc *subscriptionUseCase) Update(id, callerIndividualID string, patch SubscriptionPatch) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !sub.OwnedBy(callerIndividualID) {
		return nil, entity.ErrNotAddressedToCaller
	}
	if sub.Status != entity.SubscriptionActive {
		return nil, entity.ErrInvalidState
	}

	updates := map[string]interface{}{}
	if patch.Plan != nil {
		newPlan := *patch.Plan
		if !newPlan.Valid() || newPlan.Rank() <= sub.Plan.Rank() {
			return nil, entity.ErrInvalidUpgrade
		}
		updates["plan"] = string(newPlan)
	}
	if patch.Sector != nil {
		updates["sector"] = *patch.Sector
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if len(updates) == 0 {
		return sub, nil
	}

	err = uc.subscriptionRepo.UpdateFields(id, updates, []entity.SubscriptionStatus{entity.SubscriptionActive})
	if err != nil {
		return nil, err
	}
	return uc.subscriptionRepo.GetByID(id)
}

func (uc *subscriptionUseCase) Suspend(id string, actor entity.ActorRef) (*entity.Subscription, error) {
	sub, err := uc.authorizeParty(id, actor)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionActive {
		return nil, entity.ErrInvalidState
	}

	err = uc.subscriptionRepo.UpdateFields(id,
		map[string]interface{}{"status": entity.SubscriptionSuspended},
		[]entity.SubscriptionStatus{entity.SubscriptionActive})
	if err != nil {
		return nil, err
	}

	updated, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	uc.publishEvent("subscription_suspended", updated, 5)
	return updated, nil
}

func (uc *subscriptionUseCase) Reactivate(id string, actor entity.ActorRef) (*entity.Subscription, error) {
	sub, err := uc.authorizeParty(id, actor)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionSuspended {
		return nil, entity.ErrInvalidState
	}

	err = uc.subscriptionRepo.UpdateFields(id,
		map[string]interface{}{"status": entity.SubscriptionActive},
		[]entity.SubscriptionStatus{entity.SubscriptionSuspended})
	if err != nil {
		return nil, err
	}

	updated, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	uc.publishEvent("subscription_reactivated", updated, 5)
	return updated, nil
}

// Terminate is terminal: the row stays but no transition leads out of
// inactive, and the follow link becomes removable again.
func (uc *subscriptionUseCase) Terminate(id, individualID string) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !sub.OwnedBy(individualID) {
		return nil, entity.ErrNotAddressedToCaller
	}
	if sub.Status == entity.SubscriptionInactive {
		return nil, entity.ErrInvalidState
	}

	err = uc.subscriptionRepo.UpdateFields(id,
		map[string]interface{}{
			"status":     entity.SubscriptionInactive,
			"period_end": time.Now(),
		},
		[]entity.SubscriptionStatus{
			entity.SubscriptionActive,
			entity.SubscriptionSuspended,
			entity.SubscriptionExpired,
		})
	if err != nil {
		return nil, err
	}

	updated, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	uc.publishEvent("subscription_terminated", updated, 5)
	return updated, nil
}

func (uc *subscriptionUseCase) UpdatePermissions(id, individualID string, permissions []string) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !sub.OwnedBy(individualID) {
		return nil, entity.ErrNotAddressedToCaller
	}
	if sub.Status != entity.SubscriptionActive {
		return nil, entity.ErrInvalidState
	}

	raw, err := json.Marshal(permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	err = uc.subscriptionRepo.UpdateFields(id,
		map[string]interface{}{"permissions": string(raw)},
		[]entity.SubscriptionStatus{entity.SubscriptionActive})
	if err != nil {
		return nil, err
	}
	return uc.subscriptionRepo.GetByID(id)
}

func (uc *subscriptionUseCase) GetByID(id string) (*entity.Subscription, error) {
	return uc.subscriptionRepo.GetByID(id)
}

func (uc *subscriptionUseCase) GetPage(pageID string) (*entity.PartnershipPage, error) {
	return uc.subscriptionRepo.GetPage(pageID)
}

func (uc *subscriptionUseCase) GetPageForSubscription(subscriptionID string) (*entity.PartnershipPage, error) {
	return uc.subscriptionRepo.GetPageBySubscription(subscriptionID)
}

func (uc *subscriptionUseCase) RecordPageTransaction(pageID string, amount float64) error {
	return uc.subscriptionRepo.RecordPageTransaction(pageID, amount)
}

func (uc *subscriptionUseCase) ListByIndividual(individualID string, limit, offset int) ([]*entity.Subscription, error) {
	return uc.subscriptionRepo.ListByIndividual(individualID, limit, offset)
}

func (uc *subscriptionUseCase) ListByOrganization(organizationID string, limit, offset int) ([]*entity.Subscription, error) {
	return uc.subscriptionRepo.ListByOrganization(organizationID, limit, offset)
}

// authorizeParty admits the owning individual or the target organization.
func (uc *subscriptionUseCase) authorizeParty(id string, actor entity.ActorRef) (*entity.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch actor.Kind {
	case entity.ActorIndividual:
		if sub.IndividualID != actor.ID {
			return nil, entity.ErrNotAddressedToCaller
		}
	case entity.ActorOrganization:
		if sub.OrganizationID != actor.ID {
			return nil, entity.ErrNotAddressedToCaller
		}
	default:
		return nil, entity.ErrNotAddressedToCaller
	}
	return sub, nil
}

func (uc *subscriptionUseCase) publishEvent(eventType string, sub *entity.Subscription, priority int) {
	if uc.queueClient == nil {
		return
	}

	task := map[string]interface{}{
		"type":            eventType,
		"subscription_id": sub.ID,
		"individual_id":   sub.IndividualID,
		"organization_id": sub.OrganizationID,
		"plan":            string(sub.Plan),
		"priority":        priority,
	}

	go func() {
		if err := uc.queueClient.PublishRelationshipEvent(task); err != nil {
			uc.logger.Error("Failed to publish %s event: %v (subscription_id=%s)", eventType, err, sub.ID)
		}
	}()
}
