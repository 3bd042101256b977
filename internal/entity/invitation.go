package entity

import "time"

// ReviewStatus is the shared lifecycle of reviewable requests (follow
// invitations and direct subscription requests). "expired" is never written
// by the engine; it is computed from expires_at at read time.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewDeclined ReviewStatus = "declined"
	ReviewExpired  ReviewStatus = "expired"
)

// FollowInvitation mediates the transition from no relationship to a mutual
// follow pair. It is transient: once resolved it only serves as history.
type FollowInvitation struct {
	ID          string       `json:"id"`
	Sender      ActorRef     `json:"sender"`
	Receiver    ActorRef     `json:"receiver"`
	Status      ReviewStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	ExpiresAt   time.Time    `json:"expires_at"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (i *FollowInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CanBeAccepted reports whether the invitation is still actionable. A stored
// "pending" past its expiry reads as expired without ever being rewritten.
func (i *FollowInvitation) CanBeAccepted(now time.Time) bool {
	return i.Status == ReviewPending && !i.IsExpired(now)
}

// EffectiveStatus folds lazy expiry into the stored status.
func (i *FollowInvitation) EffectiveStatus(now time.Time) ReviewStatus {
	if i.Status == ReviewPending && i.IsExpired(now) {
		return ReviewExpired
	}
	return i.Status
}
