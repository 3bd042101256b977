package http

import (
	"net/http"

	"collabnet/internal/entity"
	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type SubscriptionRequestHandler struct {
	requestUseCase usecase.SubscriptionRequestUseCase
	logger         *logger.Logger
}

func NewSubscriptionRequestHandler(requestUseCase usecase.SubscriptionRequestUseCase, logger *logger.Logger) *SubscriptionRequestHandler {
	return &SubscriptionRequestHandler{
		requestUseCase: requestUseCase,
		logger:         logger,
	}
}

type SubmitSubscriptionRequest struct {
	OrganizationID         string `json:"organization_id" binding:"required"`
	Plan                   string `json:"plan" binding:"omitempty,oneof=standard premium enterprise"`
	Sector                 string `json:"sector"`
	Role                   string `json:"role"`
	PartnershipTitle       string `json:"partnership_title"`
	PartnershipDescription string `json:"partnership_description"`
	Message                string `json:"message"`
}

// Submit godoc
// @Summary      Request a subscription with an organization
// @Description  Submit a direct subscription request. Only individuals can subscribe; only one pending request per pair.
// @Tags         subscription-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitSubscriptionRequest true "Request"
// @Success      201  {object}  entity.SubscriptionRequest
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscription-requests [post]
func (h *SubscriptionRequestHandler) Submit(c *gin.Context) {
	caller := callerRef(c)
	if caller.Kind != entity.ActorIndividual {
		c.JSON(http.StatusForbidden, gin.H{"error": "only individuals can request subscriptions"})
		return
	}

	var req SubmitSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requestUseCase.Submit(caller.ID, req.OrganizationID, usecase.SubscriptionRequestInput{
		Plan:                   entity.SubscriptionPlan(req.Plan),
		Sector:                 req.Sector,
		Role:                   req.Role,
		PartnershipTitle:       req.PartnershipTitle,
		PartnershipDescription: req.PartnershipDescription,
		Message:                req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Accept godoc
// @Summary      Accept a subscription request
// @Description  Only the target organization may accept. Creates both follow directions, the subscription and its partnership page atomically.
// @Tags         subscription-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscription-requests/{id}/accept [post]
func (h *SubscriptionRequestHandler) Accept(c *gin.Context) {
	caller := callerRef(c)
	if caller.Kind != entity.ActorOrganization {
		c.JSON(http.StatusForbidden, gin.H{"error": "only organizations can accept subscription requests"})
		return
	}

	result, err := h.requestUseCase.Accept(c.Param("id"), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request":          result.Request,
		"links":            result.FollowLinks,
		"subscription":     result.Subscription,
		"partnership_page": result.PartnershipPage,
	})
}

// Decline godoc
// @Summary      Decline a subscription request
// @Tags         subscription-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  entity.SubscriptionRequest
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscription-requests/{id}/decline [post]
func (h *SubscriptionRequestHandler) Decline(c *gin.Context) {
	caller := callerRef(c)
	if caller.Kind != entity.ActorOrganization {
		c.JSON(http.StatusForbidden, gin.H{"error": "only organizations can decline subscription requests"})
		return
	}

	request, err := h.requestUseCase.Decline(c.Param("id"), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Cancel godoc
// @Summary      Cancel a pending subscription request
// @Description  Only the requesting individual may cancel, and only while pending.
// @Tags         subscription-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /subscription-requests/{id} [delete]
func (h *SubscriptionRequestHandler) Cancel(c *gin.Context) {
	if err := h.requestUseCase.Cancel(c.Param("id"), callerRef(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// ListMine godoc
// @Summary      List the caller's subscription requests
// @Tags         subscription-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status" Enums(pending, accepted, declined, expired)
// @Param        limit query int false "Number of requests to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /subscription-requests [get]
func (h *SubscriptionRequestHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	status := entity.ReviewStatus(c.Query("status"))
	caller := callerRef(c)

	var (
		requests []*entity.SubscriptionRequest
		err      error
	)
	if caller.Kind == entity.ActorOrganization {
		requests, err = h.requestUseCase.ListByOrganization(caller.ID, status, limit, offset)
	} else {
		requests, err = h.requestUseCase.ListByIndividual(caller.ID, status, limit, offset)
	}
	if err != nil {
		h.logger.Error("Failed to list subscription requests: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests), "offset": offset})
}

// CountPending godoc
// @Summary      Count pending requests for the calling organization
// @Tags         subscription-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /subscription-requests/pending/count [get]
func (h *SubscriptionRequestHandler) CountPending(c *gin.Context) {
	caller := callerRef(c)
	if caller.Kind != entity.ActorOrganization {
		c.JSON(http.StatusForbidden, gin.H{"error": "only organizations receive subscription requests"})
		return
	}

	count, err := h.requestUseCase.CountPendingForOrganization(caller.ID)
	if err != nil {
		h.logger.Error("Failed to count pending requests: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": count})
}
