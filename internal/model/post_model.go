package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostModel is a content item. Empty group_id/organization_id means a
// personal post.
type PostModel struct {
	ID             string           `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID       string           `gorm:"type:uuid;not null;index:idx_post_author" json:"author_id"`
	AuthorKind     string           `gorm:"type:varchar(20);not null;index:idx_post_author" json:"author_kind"`
	GroupID        string           `gorm:"type:varchar(36);not null;default:'';index" json:"group_id"`
	OrganizationID string           `gorm:"type:varchar(36);not null;default:'';index" json:"organization_id"`
	Tier           string           `gorm:"type:varchar(20);not null;default:'public'" json:"tier"`
	Title          string           `gorm:"type:varchar(255);not null" json:"title"`
	Body           string           `gorm:"type:text" json:"body"`
	MediaURL       string           `gorm:"type:varchar(500)" json:"media_url"`
	Pinned         bool             `gorm:"default:false" json:"pinned"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
	Images         []PostImageModel `gorm:"foreignKey:PostID" json:"images,omitempty"`
}

func (PostModel) TableName() string { return "posts" }

func (m *PostModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type PostImageModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	Position  int       `gorm:"default:0;index" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostImageModel) TableName() string { return "post_images" }

func (m *PostImageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
