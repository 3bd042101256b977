package usecase

import (
	"fmt"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/repo/persistent"
	"collabnet/pkg/logger"
	"collabnet/pkg/queue"
)

// SubscriptionRequestInput is the payload an individual submits with a
// direct subscription request.
type SubscriptionRequestInput struct {
	Plan                   entity.SubscriptionPlan
	Sector                 string
	Role                   string
	PartnershipTitle       string
	PartnershipDescription string
	Message                string
}

type SubscriptionRequestUseCase interface {
	Submit(individualID, organizationID string, input SubscriptionRequestInput) (*entity.SubscriptionRequest, error)
	Accept(requestID, organizationID string) (*persistent.AcceptedRequest, error)
	Decline(requestID, organizationID string) (*entity.SubscriptionRequest, error)
	Cancel(requestID, individualID string) error
	ListByIndividual(individualID string, status entity.ReviewStatus, limit, offset int) ([]*entity.SubscriptionRequest, error)
	ListByOrganization(organizationID string, status entity.ReviewStatus, limit, offset int) ([]*entity.SubscriptionRequest, error)
	CountPendingForOrganization(organizationID string) (int64, error)
}

type subscriptionRequestUseCase struct {
	requestRepo      persistent.SubscriptionRequestRepository
	subscriptionRepo persistent.SubscriptionRepository
	individualRepo   persistent.IndividualRepository
	organizationRepo persistent.OrganizationRepository
	queueClient      *queue.Client
	logger           *logger.Logger
}

func NewSubscriptionRequestUseCase(
	requestRepo persistent.SubscriptionRequestRepository,
	subscriptionRepo persistent.SubscriptionRepository,
	individualRepo persistent.IndividualRepository,
	organizationRepo persistent.OrganizationRepository,
	queueClient *queue.Client,
	logger *logger.Logger,
) SubscriptionRequestUseCase {
	return &subscriptionRequestUseCase{
		requestRepo:      requestRepo,
		subscriptionRepo: subscriptionRepo,
		individualRepo:   individualRepo,
		organizationRepo: organizationRepo,
		queueClient:      queueClient,
		logger:           logger,
	}
}

func (uc *subscriptionRequestUseCase) Submit(individualID, organizationID string, input SubscriptionRequestInput) (*entity.SubscriptionRequest, error) {
	exists, err := uc.individualRepo.Exists(individualID)
	if err != nil {
		return nil, fmt.Errorf("failed to check individual: %w", err)
	}
	if !exists {
		return nil, entity.ErrNotFound
	}

	exists, err = uc.organizationRepo.Exists(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check organization: %w", err)
	}
	if !exists {
		return nil, entity.ErrNotFound
	}

	subscribed, err := uc.subscriptionRepo.ExistsForPair(individualID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	if subscribed {
		return nil, entity.ErrAlreadySubscribed
	}

	now := time.Now()
	pending, err := uc.requestRepo.PendingExists(individualID, organizationID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, entity.ErrDuplicatePending
	}

	plan := input.Plan
	if plan == "" {
		plan = entity.PlanStandard
	}
	if !plan.Valid() {
		return nil, entity.ErrInvalidState
	}

	request := &entity.SubscriptionRequest{
		IndividualID:           individualID,
		OrganizationID:         organizationID,
		Status:                 entity.ReviewPending,
		PlanRequested:          plan,
		Sector:                 input.Sector,
		Role:                   input.Role,
		PartnershipTitle:       input.PartnershipTitle,
		PartnershipDescription: input.PartnershipDescription,
		Message:                input.Message,
		ExpiresAt:              now.Add(reviewTTL),
	}
	if err := uc.requestRepo.Create(request); err != nil {
		return nil, err
	}

	uc.publishEvent("subscription_requested", request, 5)
	return request, nil
}

// Accept provisions the mutual follow pair, the subscription and the
// partnership page in a single transaction owned by the repository.
func (uc *subscriptionRequestUseCase) Accept(requestID, organizationID string) (*persistent.AcceptedRequest, error) {
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.OrganizationID != organizationID {
		return nil, entity.ErrNotAddressedToCaller
	}

	now := time.Now()
	if !request.CanBeAccepted(now) {
		return nil, entity.ErrInvalidState
	}

	subscribed, err := uc.subscriptionRepo.ExistsForPair(request.IndividualID, request.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}
	if subscribed {
		return nil, entity.ErrAlreadySubscribed
	}

	sub, page, err := uc.buildProvisioning(request, now)
	if err != nil {
		return nil, err
	}

	result, err := uc.requestRepo.Accept(requestID, sub, page, now)
	if err != nil {
		return nil, err
	}

	uc.publishEvent("subscription_activated", result.Request, 7)
	return result, nil
}

// buildProvisioning fills the defaults the acceptance flow needs: plan falls
// back to standard, sector to the organization's sector, and the partnership
// page title to "{organization} - {individual}".
func (uc *subscriptionRequestUseCase) buildProvisioning(request *entity.SubscriptionRequest, now time.Time) (*entity.Subscription, *entity.PartnershipPage, error) {
	plan := request.PlanRequested
	if plan == "" {
		plan = entity.PlanStandard
	}

	sector := request.Sector
	if sector == "" {
		orgSector, err := uc.organizationRepo.Sector(request.OrganizationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up organization sector: %w", err)
		}
		sector = orgSector
	}

	title := request.PartnershipTitle
	if title == "" {
		orgName, err := uc.organizationRepo.Name(request.OrganizationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up organization: %w", err)
		}
		individualName, err := uc.individualRepo.Name(request.IndividualID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up individual: %w", err)
		}
		title = fmt.Sprintf("%s - %s", orgName, individualName)
	}

	sub := &entity.Subscription{
		IndividualID:   request.IndividualID,
		OrganizationID: request.OrganizationID,
		Status:         entity.SubscriptionActive,
		Plan:           plan,
		Sector:         sector,
		Role:           request.Role,
		PeriodStart:    now,
	}
	page := &entity.PartnershipPage{
		Title:       title,
		Description: request.PartnershipDescription,
		Sector:      sector,
		Visibility:  entity.PartnershipVisibilityPrivate,
	}
	return sub, page, nil
}

func (uc *subscriptionRequestUseCase) Decline(requestID, organizationID string) (*entity.SubscriptionRequest, error) {
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.OrganizationID != organizationID {
		return nil, entity.ErrNotAddressedToCaller
	}

	now := time.Now()
	if !request.CanBeAccepted(now) {
		return nil, entity.ErrInvalidState
	}

	declined, err := uc.requestRepo.MarkDeclined(requestID, now)
	if err != nil {
		return nil, err
	}

	uc.publishEvent("subscription_request_declined", declined, 3)
	return declined, nil
}

func (uc *subscriptionRequestUseCase) Cancel(requestID, individualID string) error {
	request, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return err
	}
	if request.IndividualID != individualID {
		return entity.ErrNotAddressedToCaller
	}
	if request.Status != entity.ReviewPending {
		return entity.ErrInvalidState
	}

	return uc.requestRepo.DeletePending(requestID)
}

func (uc *subscriptionRequestUseCase) ListByIndividual(individualID string, status entity.ReviewStatus, limit, offset int) ([]*entity.SubscriptionRequest, error) {
	return uc.requestRepo.ListByIndividual(individualID, status, time.Now(), limit, offset)
}

func (uc *subscriptionRequestUseCase) ListByOrganization(organizationID string, status entity.ReviewStatus, limit, offset int) ([]*entity.SubscriptionRequest, error) {
	return uc.requestRepo.ListByOrganization(organizationID, status, time.Now(), limit, offset)
}

func (uc *subscriptionRequestUseCase) CountPendingForOrganization(organizationID string) (int64, error) {
	return uc.requestRepo.CountPendingForOrganization(organizationID, time.Now())
}

func (uc *subscriptionRequestUseCase) publishEvent(eventType string, request *entity.SubscriptionRequest, priority int) {
	if uc.queueClient == nil {
		return
	}

	task := map[string]interface{}{
		"type":            eventType,
		"request_id":      request.ID,
		"individual_id":   request.IndividualID,
		"organization_id": request.OrganizationID,
		"priority":        priority,
	}

	go func() {
		if err := uc.queueClient.PublishRelationshipEvent(task); err != nil {
			uc.logger.Error("Failed to publish %s event: %v (request_id=%s)", eventType, err, request.ID)
		}
	}()
}
