package entity

import (
	"time"

	"github.com/chance-app/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleUser  = enum.New(GlobalRole("user"))
	RoleAdmin = enum.New(GlobalRole("admin"))
)

var GlobalAdminRoles = []GlobalRole{RoleAdmin}

type User struct {
	Base
	Email          string `gorm:"unique"`
	Username       string `gorm:"unique"`
	FirstName      string
	LastName       string
	WhatsappNumber string

	// HashedPassword is empty for accounts provisioned by an OAuth2
	// provider.
	HashedPassword string

	Bio            string `gorm:"type:longtext"`
	School         string
	Instagram      string
	ProfilePicture string

	Role       GlobalRole `gorm:"default:user"`
	Influence  int
	IsVerified bool
}

// OAuth2 links a user to an identity provider account. ServiceUserID is
// namespaced by the service name, so one column is enough for all providers.
type OAuth2 struct {
	UserID        string `gorm:"primaryKey"`
	User          User   `gorm:"foreignKey:UserID"`
	Service       string `gorm:"primaryKey"`
	ServiceUserID string `gorm:"unique"`
}

// RefreshToken stores the sha256 of the issued refresh token. Rotation
// deletes the row and creates a new one.
type RefreshToken struct {
	ID         string `gorm:"primaryKey"`
	UserID     string
	User       User `gorm:"foreignKey:UserID"`
	Expiration time.Time
	CreatedAt  time.Time
}
