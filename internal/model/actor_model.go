package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Individual and organization profiles are owned by the profile service; the
// relationship engine only reads them for existence checks, display names and
// sector defaults.

type IndividualModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Username  string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Email     string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL string         `gorm:"type:varchar(500)" json:"avatar_url"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (IndividualModel) TableName() string { return "individuals" }

func (m *IndividualModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type OrganizationModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Sector    string         `gorm:"type:varchar(100)" json:"sector"`
	AvatarURL string         `gorm:"type:varchar(500)" json:"avatar_url"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrganizationModel) TableName() string { return "organizations" }

func (m *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type GroupModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GroupModel) TableName() string { return "groups" }

func (m *GroupModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

const (
	GroupRoleMember = "member"
	GroupRoleAdmin  = "admin"
)

type GroupMemberModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	GroupID    string    `gorm:"type:uuid;not null;index:idx_group_member,unique" json:"group_id"`
	MemberID   string    `gorm:"type:uuid;not null;index:idx_group_member,unique" json:"member_id"`
	MemberKind string    `gorm:"type:varchar(20);not null;index:idx_group_member,unique" json:"member_kind"`
	Role       string    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func (GroupMemberModel) TableName() string { return "group_members" }

func (m *GroupMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type OrganizationMemberModel struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID string    `gorm:"type:uuid;not null;index:idx_org_member,unique" json:"organization_id"`
	IndividualID   string    `gorm:"type:uuid;not null;index:idx_org_member,unique" json:"individual_id"`
	Role           string    `gorm:"type:varchar(50)" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

func (OrganizationMemberModel) TableName() string { return "organization_members" }

func (m *OrganizationMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
