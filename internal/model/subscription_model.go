package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionModel is the durable paid relationship. Exactly one per
// (individual, organization) pair, enforced by idx_subscription_pair.
// Rows are never deleted; termination flips status to inactive.
type SubscriptionModel struct {
	ID                string     `gorm:"type:uuid;primary_key" json:"id"`
	IndividualID      string     `gorm:"type:uuid;not null;index:idx_subscription_pair,unique" json:"individual_id"`
	OrganizationID    string     `gorm:"type:uuid;not null;index:idx_subscription_pair,unique" json:"organization_id"`
	Status            string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Plan              string     `gorm:"type:varchar(20);not null;default:'standard'" json:"plan"`
	Sector            string     `gorm:"type:varchar(100)" json:"sector"`
	Role              string     `gorm:"type:varchar(100)" json:"role"`
	Balance           float64    `gorm:"type:decimal(12,2);default:0" json:"balance"`
	Permissions       string     `gorm:"type:text" json:"permissions"`
	PartnershipPageID string     `gorm:"type:uuid" json:"partnership_page_id"`
	PeriodStart       time.Time  `gorm:"not null" json:"period_start"`
	PeriodEnd         *time.Time `json:"period_end"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (SubscriptionModel) TableName() string { return "subscriptions" }

func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// PartnershipPageModel depends on exactly one subscription and is only ever
// created inside the transaction that creates the subscription.
type PartnershipPageModel struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	SubscriptionID   string    `gorm:"type:uuid;not null;uniqueIndex" json:"subscription_id"`
	Title            string    `gorm:"type:varchar(255);not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Sector           string    `gorm:"type:varchar(100)" json:"sector"`
	Visibility       string    `gorm:"type:varchar(20);not null;default:'private'" json:"visibility"`
	TransactionCount int       `gorm:"default:0" json:"transaction_count"`
	TotalAmount      float64   `gorm:"type:decimal(14,2);default:0" json:"total_amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PartnershipPageModel) TableName() string { return "partnership_pages" }

func (m *PartnershipPageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
