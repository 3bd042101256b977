package http

import (
	"net/http"

	"collabnet/internal/entity"
	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitationUseCase usecase.InvitationUseCase
	logger            *logger.Logger
}

func NewInvitationHandler(invitationUseCase usecase.InvitationUseCase, logger *logger.Logger) *InvitationHandler {
	return &InvitationHandler{
		invitationUseCase: invitationUseCase,
		logger:            logger,
	}
}

type SendInvitationRequest struct {
	ReceiverID   string `json:"receiver_id" binding:"required"`
	ReceiverKind string `json:"receiver_kind" binding:"required,oneof=individual organization"`
	Message      string `json:"message"`
}

// Send godoc
// @Summary      Send a follow invitation
// @Description  Invite another actor to connect. Accepting creates follow links in both directions.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendInvitationRequest true "Invitation"
// @Success      201  {object}  entity.FollowInvitation
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /invitations [post]
func (h *InvitationHandler) Send(c *gin.Context) {
	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receiver := entity.ActorRef{ID: req.ReceiverID, Kind: entity.ActorKind(req.ReceiverKind)}
	invitation, err := h.invitationUseCase.Send(callerRef(c), receiver, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

// Accept godoc
// @Summary      Accept a follow invitation
// @Description  Only the receiver may accept; on success both follow directions exist.
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /invitations/{id}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	invitation, links, err := h.invitationUseCase.Accept(c.Param("id"), callerRef(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation, "links": links})
}

// Decline godoc
// @Summary      Decline a follow invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      200  {object}  entity.FollowInvitation
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /invitations/{id}/decline [post]
func (h *InvitationHandler) Decline(c *gin.Context) {
	invitation, err := h.invitationUseCase.Decline(c.Param("id"), callerRef(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

// Cancel godoc
// @Summary      Cancel a pending invitation
// @Description  Only the sender may cancel, and only while the invitation is pending.
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invitation ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.invitationUseCase.Cancel(c.Param("id"), callerRef(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation cancelled"})
}

// ListSent godoc
// @Summary      List invitations the caller sent
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status" Enums(pending, accepted, declined, expired)
// @Param        limit query int false "Number of invitations to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /invitations/sent [get]
func (h *InvitationHandler) ListSent(c *gin.Context) {
	limit, offset := pagination(c)
	status := entity.ReviewStatus(c.Query("status"))

	invitations, err := h.invitationUseCase.ListSent(callerRef(c), status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list sent invitations: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations, "count": len(invitations), "offset": offset})
}

// ListReceived godoc
// @Summary      List invitations the caller received
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status" Enums(pending, accepted, declined, expired)
// @Param        limit query int false "Number of invitations to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /invitations/received [get]
func (h *InvitationHandler) ListReceived(c *gin.Context) {
	limit, offset := pagination(c)
	status := entity.ReviewStatus(c.Query("status"))

	invitations, err := h.invitationUseCase.ListReceived(callerRef(c), status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list received invitations: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations, "count": len(invitations), "offset": offset})
}

// CountPending godoc
// @Summary      Count pending received invitations
// @Description  Cached for a short interval; lapsed invitations are excluded.
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /invitations/pending/count [get]
func (h *InvitationHandler) CountPending(c *gin.Context) {
	count, err := h.invitationUseCase.CountPendingReceived(callerRef(c))
	if err != nil {
		h.logger.Error("Failed to count pending invitations: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": count})
}
