package entity

import (
	"time"

	"github.com/chance-app/backend/pkg/enum"
)

type ShareType string

var (
	ShareTypeLink     = enum.New(ShareType("link"))
	ShareTypeWhatsapp = enum.New(ShareType("whatsapp"))
	ShareTypeTwitter  = enum.New(ShareType("twitter"))
)

// SharingLog is append-only. IDs come from the snowflake node so rows are
// time-ordered without an extra index.
type SharingLog struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	HeartbeatID string    `gorm:"index"`
	Heartbeat   Heartbeat `gorm:"foreignKey:HeartbeatID"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	ShareType ShareType
}
