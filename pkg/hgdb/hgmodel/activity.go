package hgmodel

import (
	"time"
)

type ActivityType string

const (
	ActivitySubmitted ActivityType = "submitted"
	ActivityAccepted  ActivityType = "accepted"
	ActivityRejected  ActivityType = "rejected"
	ActivityRevised   ActivityType = "revised"
	ActivityCommented ActivityType = "commented"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivitySubmitted, ActivityAccepted, ActivityRejected, ActivityRevised, ActivityCommented:
		return true
	}
	return false
}

// Activity is one append-only audit record of a workflow action on an
// entity. Rows are never updated or deleted.
type Activity struct {
	ID           int             `json:"id"`
	UUID         string          `json:"uuid"`
	EntityID     int             `json:"entity_id"`
	Entity       *CulturalEntity `json:"-" gorm:"foreignKey:EntityID;references:ID"`
	UserID       int             `json:"user_id"`
	User         *User           `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	ActivityType ActivityType    `json:"activity_type"`
	Comment      string          `json:"comment"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
