package http

import (
	"net/http"

	"collabnet/internal/usecase"
	"collabnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
	logger      *logger.Logger
}

func NewFeedHandler(feedUseCase usecase.FeedUseCase, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
		logger:      logger,
	}
}

// GetFeed godoc
// @Summary      Get the caller's feed
// @Description  Resolves visibility from the caller's follows and memberships on every request. Scoping to a group orders pinned posts first.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Param        group_id query string false "Narrow the feed to one group"
// @Param        media_only query bool false "Only posts carrying media"
// @Param        limit query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.feedUseCase.Resolve(callerRef(c), usecase.FeedOptions{
		GroupID:   c.Query("group_id"),
		MediaOnly: c.Query("media_only") == "true",
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.logger.Error("Failed to resolve feed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}
