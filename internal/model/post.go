package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_author_time,priority:1" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_author_time,priority:2;index:idx_created_at" json:"createdAt"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string { return "posts" }

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index:idx_post_time,priority:1" json:"postId"`
	AuthorID  string    `gorm:"size:36;not null" json:"authorId"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"size:512" json:"imageUrl,omitempty"`
	VoiceURL  string    `gorm:"size:512" json:"voiceUrl,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_post_time,priority:2" json:"createdAt"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
}

func (Comment) TableName() string { return "comments" }
