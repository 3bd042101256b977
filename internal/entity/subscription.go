package entity

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionInactive  SubscriptionStatus = "inactive"
)

type SubscriptionPlan string

const (
	PlanStandard   SubscriptionPlan = "standard"
	PlanPremium    SubscriptionPlan = "premium"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanStandard, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

// Rank orders plans for upgrade checks: standard < premium < enterprise.
func (p SubscriptionPlan) Rank() int {
	switch p {
	case PlanStandard:
		return 1
	case PlanPremium:
		return 2
	case PlanEnterprise:
		return 3
	}
	return 0
}

// Subscription is the paid relationship between one individual and one
// organization, unique per pair. It is never deleted; termination sets the
// status to inactive and stamps period_end.
type Subscription struct {
	ID                string             `json:"id"`
	IndividualID      string             `json:"individual_id"`
	OrganizationID    string             `json:"organization_id"`
	Status            SubscriptionStatus `json:"status"`
	Plan              SubscriptionPlan   `json:"plan"`
	Sector            string             `json:"sector,omitempty"`
	Role              string             `json:"role,omitempty"`
	Balance           float64            `json:"balance"`
	Permissions       []string           `json:"permissions"`
	PartnershipPageID string             `json:"partnership_page_id,omitempty"`
	PeriodStart       time.Time          `json:"period_start"`
	PeriodEnd         *time.Time         `json:"period_end,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func (s *Subscription) OwnedBy(individualID string) bool {
	return s.IndividualID == individualID
}

// PartnershipPage is the collaboration workspace provisioned exactly once per
// subscription, always inside the same transaction that creates it.
type PartnershipPage struct {
	ID               string    `json:"id"`
	SubscriptionID   string    `json:"subscription_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Sector           string    `json:"sector,omitempty"`
	Visibility       string    `json:"visibility"`
	TransactionCount int       `json:"transaction_count"`
	TotalAmount      float64   `json:"total_amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const PartnershipVisibilityPrivate = "private"
