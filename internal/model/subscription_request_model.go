package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionRequestModel stores direct subscription requests from an
// individual to an organization. One pending request per pair is enforced by
// a partial unique index in the migrations (uq_sub_requests_pending).
type SubscriptionRequestModel struct {
	ID                     string     `gorm:"type:uuid;primary_key" json:"id"`
	IndividualID           string     `gorm:"type:uuid;not null;index:idx_sub_request_individual" json:"individual_id"`
	OrganizationID         string     `gorm:"type:uuid;not null;index:idx_sub_request_organization" json:"organization_id"`
	Status                 string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PlanRequested          string     `gorm:"type:varchar(20);not null;default:'standard'" json:"plan_requested"`
	Sector                 string     `gorm:"type:varchar(100)" json:"sector"`
	Role                   string     `gorm:"type:varchar(100)" json:"role"`
	PartnershipTitle       string     `gorm:"type:varchar(255)" json:"partnership_title"`
	PartnershipDescription string     `gorm:"type:text" json:"partnership_description"`
	Message                string     `gorm:"type:text" json:"message"`
	ExpiresAt              time.Time  `gorm:"not null" json:"expires_at"`
	RespondedAt            *time.Time `json:"responded_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (SubscriptionRequestModel) TableName() string { return "subscription_requests" }

func (m *SubscriptionRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
