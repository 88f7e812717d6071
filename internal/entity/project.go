package entity

import (
	"time"

	"github.com/chance-app/backend/pkg/enum"
	"gorm.io/gorm"
)

type ProjectStatusType string

var (
	ProjectStatusOpen      = enum.New(ProjectStatusType("open"))
	ProjectStatusOngoing   = enum.New(ProjectStatusType("ongoing"))
	ProjectStatusCompleted = enum.New(ProjectStatusType("completed"))
)

type Project struct {
	Base
	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`

	Title            string
	Description      string `gorm:"type:longtext"`
	Category         string `gorm:"index"`
	Impact           string `gorm:"type:longtext"`
	TeamSize         int
	Effort           string
	PeopleInfluenced int
	TypeOfPeople     string
	RequiredTools    Array[string] `gorm:"type:longtext"`
	ActionPlan       Array[string] `gorm:"type:longtext"`
	Collaboration    string

	Status     ProjectStatusType `gorm:"default:open;index"`
	Visibility VisibilityType    `gorm:"default:public"`
	AdminNotes string            `gorm:"type:longtext"`

	// Likes counts unique upvoters. It is only changed together with a
	// project_votes row, via atomic updates.
	Likes int
}

type ProjectMember struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ProjectID string  `gorm:"primaryKey"`
	Project   Project `gorm:"foreignKey:ProjectID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}

type ProjectVote struct {
	CreatedAt time.Time

	ProjectID string  `gorm:"primaryKey"`
	Project   Project `gorm:"foreignKey:ProjectID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}

// ProjectCompletion is the append-only audit row written when an admin
// completes a project and awards influence points.
type ProjectCompletion struct {
	Base
	ProjectID string  `gorm:"index"`
	Project   Project `gorm:"foreignKey:ProjectID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Points int
}
