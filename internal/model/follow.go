package model

import "time"

type Follow struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID  string    `gorm:"size:36;not null;uniqueIndex:uk_follower_following,priority:1" json:"followerId"`
	FollowingID string    `gorm:"size:36;not null;uniqueIndex:uk_follower_following,priority:2;index:idx_following_id" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// 事件类型
const (
	EventFollow              = "follow"
	EventUnfollow            = "unfollow"
	EventPostCreated         = "post_created"
	EventCommentCreated      = "comment_created"
	EventConversationCreated = "conversation_created"
	EventMessageSent         = "message_sent"
)

// outbox 投递状态
const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// SocialOutbox 社交事件outbox表
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	ActorID   string `gorm:"size:36;not null"`
	SubjectID string `gorm:"size:36;not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index:idx_status_id,priority:1;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
