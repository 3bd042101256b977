package entity

import "time"

// SubscriptionRequest is the alternate entry point into a paid relationship:
// an individual asks an organization for a subscription without following it
// first. Acceptance provisions the mutual follow pair, the subscription and
// the partnership page in one step.
type SubscriptionRequest struct {
	ID                     string           `json:"id"`
	IndividualID           string           `json:"individual_id"`
	OrganizationID         string           `json:"organization_id"`
	Status                 ReviewStatus     `json:"status"`
	PlanRequested          SubscriptionPlan `json:"plan_requested"`
	Sector                 string           `json:"sector,omitempty"`
	Role                   string           `json:"role,omitempty"`
	PartnershipTitle       string           `json:"partnership_title,omitempty"`
	PartnershipDescription string           `json:"partnership_description,omitempty"`
	Message                string           `json:"message,omitempty"`
	ExpiresAt              time.Time        `json:"expires_at"`
	RespondedAt            *time.Time       `json:"responded_at,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

func (r *SubscriptionRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

func (r *SubscriptionRequest) CanBeAccepted(now time.Time) bool {
	return r.Status == ReviewPending && !r.IsExpired(now)
}

func (r *SubscriptionRequest) EffectiveStatus(now time.Time) ReviewStatus {
	if r.Status == ReviewPending && r.IsExpired(now) {
		return ReviewExpired
	}
	return r.Status
}
