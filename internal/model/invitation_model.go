package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowInvitationModel stores reviewable follow invitations. The "one
// pending per ordered pair" constraint is a partial unique index in the
// postgres migrations (uq_invitations_pending); application checks cover
// stores that cannot express partial indexes.
type FollowInvitationModel struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	SenderID     string     `gorm:"type:uuid;not null;index:idx_invitation_sender" json:"sender_id"`
	SenderKind   string     `gorm:"type:varchar(20);not null" json:"sender_kind"`
	ReceiverID   string     `gorm:"type:uuid;not null;index:idx_invitation_receiver" json:"receiver_id"`
	ReceiverKind string     `gorm:"type:varchar(20);not null" json:"receiver_kind"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Message      string     `gorm:"type:text" json:"message"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	RespondedAt  *time.Time `json:"responded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (FollowInvitationModel) TableName() string { return "follow_invitations" }

func (m *FollowInvitationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
