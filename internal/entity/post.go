package entity

import "time"

// Tier is a post's visibility level within its channel.
type Tier string

const (
	TierPublic      Tier = "public"
	TierMembersOnly Tier = "members_only"
	TierAdminsOnly  Tier = "admins_only"
)

func (t Tier) Valid() bool {
	switch t {
	case TierPublic, TierMembersOnly, TierAdminsOnly:
		return true
	}
	return false
}

// Post is a content item. GroupID / OrganizationID scope it to a channel;
// both empty means a personal post, which is always public by construction.
type Post struct {
	ID             string      `json:"id"`
	Author         ActorRef    `json:"author"`
	GroupID        string      `json:"group_id,omitempty"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Tier           Tier        `json:"tier"`
	Title          string      `json:"title"`
	Body           string      `json:"body,omitempty"`
	MediaURL       string      `json:"media_url,omitempty"`
	Pinned         bool        `json:"pinned"`
	Images         []PostImage `json:"images,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (p *Post) IsPersonal() bool {
	return p.GroupID == "" && p.OrganizationID == ""
}

type PostImage struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ImageURL  string    `json:"image_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
