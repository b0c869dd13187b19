package hgmodel

import "time"

// Comment is reader discussion attached to an entity. Recording a comment
// also records a "commented" Activity for the audit trail.
type Comment struct {
	ID        int             `json:"id"`
	UUID      string          `json:"uuid"`
	EntityID  int             `json:"entity_id"`
	Entity    *CulturalEntity `json:"-" gorm:"foreignKey:EntityID;references:ID"`
	UserID    int             `json:"user_id"`
	User      *User           `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
}
