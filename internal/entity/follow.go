package entity

import "time"

// FollowLink is a one-directional "follower follows followee" edge. A mutual
// connection is two links, one per direction, created together when an
// invitation or a direct subscription request is accepted.
type FollowLink struct {
	ID              string     `json:"id"`
	Follower        ActorRef   `json:"follower"`
	Followee        ActorRef   `json:"followee"`
	NotifyOnPost    bool       `json:"notify_on_post"`
	NotifyByEmail   bool       `json:"notify_by_email"`
	LastVisit       *time.Time `json:"last_visit,omitempty"`
	LastInteraction *time.Time `json:"last_interaction,omitempty"`
	LikeCount       int        `json:"like_count"`
	CommentCount    int        `json:"comment_count"`
	ShareCount      int        `json:"share_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type EngagementKind string

const (
	EngagementLike    EngagementKind = "like"
	EngagementComment EngagementKind = "comment"
	EngagementShare   EngagementKind = "share"
)

func (k EngagementKind) Valid() bool {
	switch k {
	case EngagementLike, EngagementComment, EngagementShare:
		return true
	}
	return false
}
