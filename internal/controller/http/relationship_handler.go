package http

import (
	"net/http"

	"collabnet/internal/entity"
	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RelationshipHandler struct {
	relationshipUseCase usecase.RelationshipUseCase
	logger              *logger.Logger
}

func NewRelationshipHandler(relationshipUseCase usecase.RelationshipUseCase, logger *logger.Logger) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipUseCase: relationshipUseCase,
		logger:              logger,
	}
}

type TargetActorRequest struct {
	ActorID   string `json:"actor_id" binding:"required"`
	ActorKind string `json:"actor_kind" binding:"required,oneof=individual organization"`
}

func (r TargetActorRequest) ref() entity.ActorRef {
	return entity.ActorRef{ID: r.ActorID, Kind: entity.ActorKind(r.ActorKind)}
}

// Follow godoc
// @Summary      Follow an actor
// @Description  Create a one-way follow link to another individual or organization. Re-following is a no-op.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TargetActorRequest true "Actor to follow"
// @Success      201  {object}  entity.FollowLink
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /relationships/follow [post]
func (h *RelationshipHandler) Follow(c *gin.Context) {
	var req TargetActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.relationshipUseCase.Follow(callerRef(c), req.ref())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// Unfollow godoc
// @Summary      Unfollow an actor
// @Description  Remove the follow link. Blocked with 409 while an active subscription exists for the pair.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TargetActorRequest true "Actor to unfollow"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /relationships/unfollow [post]
func (h *RelationshipHandler) Unfollow(c *gin.Context) {
	var req TargetActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.relationshipUseCase.Unfollow(callerRef(c), req.ref()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

type NotificationPrefsRequest struct {
	ActorID       string `json:"actor_id" binding:"required"`
	ActorKind     string `json:"actor_kind" binding:"required,oneof=individual organization"`
	NotifyOnPost  *bool  `json:"notify_on_post" binding:"required"`
	NotifyByEmail *bool  `json:"notify_by_email" binding:"required"`
}

// UpdateNotificationPrefs godoc
// @Summary      Update follow notification preferences
// @Description  Set per-link notification flags for a followee
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NotificationPrefsRequest true "Preferences"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /relationships/notifications [put]
func (h *RelationshipHandler) UpdateNotificationPrefs(c *gin.Context) {
	var req NotificationPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	followee := entity.ActorRef{ID: req.ActorID, Kind: entity.ActorKind(req.ActorKind)}
	err := h.relationshipUseCase.UpdateNotificationPrefs(callerRef(c), followee, *req.NotifyOnPost, *req.NotifyByEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated"})
}

// RecordVisit godoc
// @Summary      Record a profile visit
// @Description  Stamp last_visit and last_interaction on the follow link
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TargetActorRequest true "Visited actor"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /relationships/visit [post]
func (h *RelationshipHandler) RecordVisit(c *gin.Context) {
	var req TargetActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.relationshipUseCase.RecordVisit(callerRef(c), req.ref()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Visit recorded"})
}

type EngagementRequest struct {
	ActorID   string `json:"actor_id" binding:"required"`
	ActorKind string `json:"actor_kind" binding:"required,oneof=individual organization"`
	Kind      string `json:"kind" binding:"required,oneof=like comment share"`
}

// RecordEngagement godoc
// @Summary      Record an engagement
// @Description  Increment the like/comment/share counter on the follow link
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body EngagementRequest true "Engagement"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /relationships/engagement [post]
func (h *RelationshipHandler) RecordEngagement(c *gin.Context) {
	var req EngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	followee := entity.ActorRef{ID: req.ActorID, Kind: entity.ActorKind(req.ActorKind)}
	err := h.relationshipUseCase.RecordEngagement(callerRef(c), followee, entity.EngagementKind(req.Kind))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Engagement recorded"})
}

// ListFollowing godoc
// @Summary      List who the caller follows
// @Tags         relationships
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of links to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /relationships/following [get]
func (h *RelationshipHandler) ListFollowing(c *gin.Context) {
	limit, offset := pagination(c)

	links, err := h.relationshipUseCase.ListFollowing(callerRef(c), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list following: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": links, "count": len(links), "offset": offset})
}

// ListFollowers godoc
// @Summary      List the caller's followers
// @Tags         relationships
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of links to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Router       /relationships/followers [get]
func (h *RelationshipHandler) ListFollowers(c *gin.Context) {
	limit, offset := pagination(c)

	links, err := h.relationshipUseCase.ListFollowers(callerRef(c), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list followers: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": links, "count": len(links), "offset": offset})
}

// Counts godoc
// @Summary      Get following/follower counts
// @Tags         relationships
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /relationships/counts [get]
func (h *RelationshipHandler) Counts(c *gin.Context) {
	following, followers, err := h.relationshipUseCase.Counts(callerRef(c))
	if err != nil {
		h.logger.Error("Failed to count relationships: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following, "followers": followers})
}
