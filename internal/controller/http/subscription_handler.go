package http

import (
	"net/http"

	"collabnet/internal/entity"
	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionUseCase usecase.SubscriptionUseCase
	logger              *logger.Logger
}

func NewSubscriptionHandler(subscriptionUseCase usecase.SubscriptionUseCase, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
		logger:              logger,
	}
}

type UpgradeSubscriptionRequest struct {
	OrganizationID         string `json:"organization_id" binding:"required"`
	Plan                   string `json:"plan" binding:"omitempty,oneof=standard premium enterprise"`
	Sector                 string `json:"sector"`
	Role                   string `json:"role"`
	PartnershipTitle       string `json:"partnership_title"`
	PartnershipDescription string `json:"partnership_description"`
}

// Upgrade godoc
// @Summary      Upgrade a follow into a subscription
// @Description  The caller must already follow the organization. Creates the subscription and its partnership page together.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpgradeSubscriptionRequest true "Upgrade"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	caller := callerRef(c)
	if caller.Kind != entity.ActorIndividual {
		c.JSON(http.StatusForbidden, gin.H{"error": "only individuals can subscribe"})
		return
	}

	var req UpgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, page, err := h.subscriptionUseCase.UpgradeFromFollow(caller.ID, req.OrganizationID, usecase.SubscriptionRequestInput{
		Plan:                   entity.SubscriptionPlan(req.Plan),
		Sector:                 req.Sector,
		Role:                   req.Role,
		PartnershipTitle:       req.PartnershipTitle,
		PartnershipDescription: req.PartnershipDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub, "partnership_page": page})
}

// Get godoc
// @Summary      Get subscription by ID
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  entity.Subscription
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	sub, err := h.subscriptionUseCase.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

type UpdateSubscriptionRequest struct {
	Plan   *string `json:"plan" binding:"omitempty,oneof=standard premium enterprise"`
	Sector *string `json:"sector"`
	Role   *string `json:"role"`
}

// Update godoc
// @Summary      Update an active subscription
// @Description  Plan changes must move strictly forward: standard < premium < enterprise.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Param        request body UpdateSubscriptionRequest true "Fields to change"
// @Success      200  {object}  entity.Subscription
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id} [patch]
func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := usecase.SubscriptionPatch{Sector: req.Sector, Role: req.Role}
	if req.Plan != nil {
		plan := entity.SubscriptionPlan(*req.Plan)
		patch.Plan = &plan
	}

	sub, err := h.subscriptionUseCase.Update(c.Param("id"), callerRef(c).ID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Suspend godoc
// @Summary      Suspend an active subscription
// @Description  Either party may suspend. The follow link stays in place.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  entity.Subscription
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id}/suspend [post]
func (h *SubscriptionHandler) Suspend(c *gin.Context) {
	sub, err := h.subscriptionUseCase.Suspend(c.Param("id"), callerRef(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Reactivate godoc
// @Summary      Reactivate a suspended subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  entity.Subscription
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id}/reactivate [post]
func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	sub, err := h.subscriptionUseCase.Reactivate(c.Param("id"), callerRef(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Terminate godoc
// @Summary      Terminate a subscription
// @Description  Terminal transition: the subscription becomes inactive and the follow link becomes removable.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  entity.Subscription
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id}/terminate [post]
func (h *SubscriptionHandler) Terminate(c *gin.Context) {
	sub, err := h.subscriptionUseCase.Terminate(c.Param("id"), callerRef(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// UpdatePermissions godoc
// @Summary      Replace the subscription's permission set
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Param        request body UpdatePermissionsRequest true "Permissions"
// @Success      200  {object}  entity.Subscription
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscriptions/{id}/permissions [put]
func (h *SubscriptionHandler) UpdatePermissions(c *gin.Context) {
	var req UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptionUseCase.UpdatePermissions(c.Param("id"), callerRef(c).ID, req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// ListMine godoc
// @Summary      List the caller's subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of subscriptions to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /subscriptions [get]
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	caller := callerRef(c)

	var (
		subs []*entity.Subscription
		err  error
	)
	if caller.Kind == entity.ActorOrganization {
		subs, err = h.subscriptionUseCase.ListByOrganization(caller.ID, limit, offset)
	} else {
		subs, err = h.subscriptionUseCase.ListByIndividual(caller.ID, limit, offset)
	}
	if err != nil {
		h.logger.Error("Failed to list subscriptions: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "count": len(subs), "offset": offset})
}

// GetPage godoc
// @Summary      Get a partnership page
// @Tags         partnership-pages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Page ID"
// @Success      200  {object}  entity.PartnershipPage
// @Failure      404  {object}  map[string]string
// @Router       /partnership-pages/{id} [get]
func (h *SubscriptionHandler) GetPage(c *gin.Context) {
	page, err := h.subscriptionUseCase.GetPage(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSubscriptionPage godoc
// @Summary      Get the partnership page of a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  entity.PartnershipPage
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{id}/page [get]
func (h *SubscriptionHandler) GetSubscriptionPage(c *gin.Context) {
	page, err := h.subscriptionUseCase.GetPageForSubscription(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type PageTransactionRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RecordPageTransaction godoc
// @Summary      Record a transaction against a partnership page
// @Tags         partnership-pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Page ID"
// @Param        request body PageTransactionRequest true "Transaction"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /partnership-pages/{id}/transactions [post]
func (h *SubscriptionHandler) RecordPageTransaction(c *gin.Context) {
	var req PageTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.subscriptionUseCase.RecordPageTransaction(c.Param("id"), req.Amount); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction recorded"})
}
