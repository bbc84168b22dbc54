package model

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	Image     string    `gorm:"size:512" json:"image"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// Account 第三方登录账号绑定
type Account struct {
	ID                string `gorm:"primaryKey;size:36"`
	UserID            string `gorm:"size:36;not null;index"`
	Type              string `gorm:"size:32;not null"`
	Provider          string `gorm:"size:32;not null;uniqueIndex:uk_provider_account"`
	ProviderAccountID string `gorm:"size:64;not null;uniqueIndex:uk_provider_account"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Account) TableName() string { return "accounts" }
