package entity

import "errors"

// Error kinds returned by the relationship engine. The HTTP layer maps these
// to status codes; nothing below the controllers knows about transports.
var (
	ErrNotFound             = errors.New("record not found")
	ErrSelfReference        = errors.New("actor cannot target itself")
	ErrDuplicatePending     = errors.New("a pending request already exists for this pair")
	ErrAlreadyConnected     = errors.New("actors are already connected")
	ErrAlreadySubscribed    = errors.New("a subscription already exists for this pair")
	ErrNotAddressedToCaller = errors.New("request is not addressed to the caller")
	ErrInvalidState         = errors.New("operation not allowed in current state")
	ErrInvalidUpgrade       = errors.New("plan change must advance the plan ordering")

	// ErrSubscriptionBlocksUnfollow guards the follow link an active
	// subscription depends on. Suspended subscriptions do not block.
	ErrSubscriptionBlocksUnfollow = errors.New("active subscription blocks unfollow")
)
