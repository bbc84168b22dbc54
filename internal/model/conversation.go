package model

import (
	"strings"
	"time"
)

// Conversation 两人私信会话，PairKey 保证同一对用户只有一个会话
type Conversation struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	PairKey      string    `gorm:"size:80;not null;uniqueIndex:uk_pair_key" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `gorm:"index:idx_updated_at" json:"updatedAt"`
	Participants []User    `gorm:"many2many:conversation_participants;" json:"participants"`
	Messages     []Message `gorm:"foreignKey:ConversationID" json:"messages"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant 会话成员关联表
type ConversationParticipant struct {
	ConversationID string `gorm:"primaryKey;size:36"`
	UserID         string `gorm:"primaryKey;size:36;index:idx_participant_user"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }

type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"size:36;not null;index:idx_conversation_time,priority:1" json:"conversationId"`
	SenderID       string    `gorm:"size:36;not null" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_conversation_time,priority:2" json:"createdAt"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender"`
}

func (Message) TableName() string { return "messages" }

// PairKey 归一化的会话键：min:max
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + ":" + b
}

// HasParticipant 判断用户是否为会话成员
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
