package entity

import (
	"time"
)

type Heartbeat struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content string `gorm:"type:longtext"`
	Image   string
	Video   string

	Visibility VisibilityType `gorm:"default:public"`

	// Likes and Comments are denormalized counters kept consistent with
	// the join tables via atomic updates.
	Likes    int
	Comments int
}

type HeartbeatLike struct {
	CreatedAt time.Time

	HeartbeatID string    `gorm:"primaryKey"`
	Heartbeat   Heartbeat `gorm:"foreignKey:HeartbeatID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}

type HeartbeatComment struct {
	Base
	HeartbeatID string    `gorm:"index"`
	Heartbeat   Heartbeat `gorm:"foreignKey:HeartbeatID"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	Content string `gorm:"type:longtext"`

	Likes int
}

type CommentLike struct {
	CreatedAt time.Time

	CommentID string           `gorm:"primaryKey"`
	Comment   HeartbeatComment `gorm:"foreignKey:CommentID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}
