package hgmodel

import (
	"encoding/json"
	"time"
)

// Revision is an immutable snapshot of an entity's form data. Revision
// numbers are assigned by the store, start at 1, and are contiguous per
// entity; (EntityID, RevisionNumber) carries a unique index.
type Revision struct {
	ID             int             `json:"id"`
	UUID           string          `json:"uuid"`
	EntityID       int             `json:"entity_id" gorm:"uniqueIndex:idx_entity_revision_number"`
	Entity         *CulturalEntity `json:"-" gorm:"foreignKey:EntityID;references:ID"`
	Data           json.RawMessage `json:"data" gorm:"type:json"`
	RevisionNumber int             `json:"revision_number" gorm:"uniqueIndex:idx_entity_revision_number"`
	CreatedByID    int             `json:"created_by_id"`
	CreatedBy      *User           `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;references:ID"`
	CreatedAt      time.Time       `json:"created_at"`
}
