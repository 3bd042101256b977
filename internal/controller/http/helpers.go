package http

import (
	"errors"
	"net/http"
	"strconv"

	"collabnet/internal/entity"

	"github.com/gin-gonic/gin"
)

// callerRef reads the authenticated actor from the context set by the auth
// middleware.
func callerRef(c *gin.Context) entity.ActorRef {
	return entity.ActorRef{
		ID:   c.GetString("actor_id"),
		Kind: entity.ActorKind(c.GetString("actor_kind")),
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// respondError maps domain errors onto HTTP statuses; anything unrecognized
// is a 500 with a generic body so internals don't leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrSelfReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNotAddressedToCaller):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrDuplicatePending),
		errors.Is(err, entity.ErrAlreadyConnected),
		errors.Is(err, entity.ErrAlreadySubscribed),
		errors.Is(err, entity.ErrInvalidState),
		errors.Is(err, entity.ErrInvalidUpgrade),
		errors.Is(err, entity.ErrSubscriptionBlocksUnfollow):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
