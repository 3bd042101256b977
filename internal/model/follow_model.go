package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowLinkModel is one direction of the follow graph. The composite unique
// index on the full (follower, followee) pair is the backstop against
// duplicate links under concurrent creation.
// idx_follow_pair = (follower_id, follower_kind, followee_id, followee_kind)
type FollowLinkModel struct {
	ID              string     `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID      string     `gorm:"type:uuid;not null;index:idx_follow_pair,unique;index:idx_follow_follower" json:"follower_id"`
	FollowerKind    string     `gorm:"type:varchar(20);not null;index:idx_follow_pair,unique" json:"follower_kind"`
	FolloweeID      string     `gorm:"type:uuid;not null;index:idx_follow_pair,unique;index:idx_follow_followee" json:"followee_id"`
	FolloweeKind    string     `gorm:"type:varchar(20);not null;index:idx_follow_pair,unique" json:"followee_kind"`
	NotifyOnPost    bool       `gorm:"default:true" json:"notify_on_post"`
	NotifyByEmail   bool       `gorm:"default:false" json:"notify_by_email"`
	LastVisit       *time.Time `json:"last_visit"`
	LastInteraction *time.Time `json:"last_interaction"`
	LikeCount       int        `gorm:"default:0" json:"like_count"`
	CommentCount    int        `gorm:"default:0" json:"comment_count"`
	ShareCount      int        `gorm:"default:0" json:"share_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (FollowLinkModel) TableName() string { return "follow_links" }

func (m *FollowLinkModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
