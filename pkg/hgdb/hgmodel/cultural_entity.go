package hgmodel

import (
	"time"
)

// EntityStatus is the workflow state of a CulturalEntity. Entities only move
// between statuses through the workflow engine's transition operations.
type EntityStatus string

const (
	StatusDraft           EntityStatus = "draft"
	StatusPendingReview   EntityStatus = "pending_review"
	StatusAccepted        EntityStatus = "accepted"
	StatusRejected        EntityStatus = "rejected"
	StatusPendingRevision EntityStatus = "pending_revision"
)

func (s EntityStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusAccepted, StatusRejected, StatusPendingRevision:
		return true
	}
	return false
}

type EntityCategory string

const (
	CategoryMonument  EntityCategory = "monument"
	CategoryArtifact  EntityCategory = "artifact"
	CategoryRitual    EntityCategory = "ritual"
	CategoryFestival  EntityCategory = "festival"
	CategoryTradition EntityCategory = "tradition"
	CategoryDocument  EntityCategory = "document"
	CategoryOther     EntityCategory = "other"
)

func (c EntityCategory) IsValid() bool {
	switch c {
	case CategoryMonument, CategoryArtifact, CategoryRitual, CategoryFestival,
		CategoryTradition, CategoryDocument, CategoryOther:
		return true
	}
	return false
}

// CulturalEntity is a single heritage record under the moderation workflow.
// CurrentRevisionID points at the published revision; it is nil until an
// editor first accepts the entity and always references one of the entity's
// own revisions.
type CulturalEntity struct {
	ID                int            `json:"id"`
	UUID              string         `json:"uuid"`
	Slug              string         `json:"slug" gorm:"uniqueIndex"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Category          EntityCategory `json:"category"`
	Status            EntityStatus   `json:"status"`
	ContributorID     int            `json:"contributor_id"`
	Contributor       *User          `json:"contributor,omitempty" gorm:"foreignKey:ContributorID;references:ID"`
	CurrentRevisionID *int           `json:"current_revision_id"`
	CurrentRevision   *Revision      `json:"current_revision,omitempty" gorm:"foreignKey:CurrentRevisionID;references:ID"`
	Revisions         []Revision     `json:"revisions,omitempty" gorm:"foreignKey:EntityID;references:ID"`
	Activities        []Activity     `json:"activities,omitempty" gorm:"foreignKey:EntityID;references:ID"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	// Filled in by EntityStor.GetContributionQueue, not persisted.
	ActivityCount  int64     `json:"activity_count,omitempty" gorm:"-"`
	LatestRevision *Revision `json:"latest_revision,omitempty" gorm:"-"`
}

func (CulturalEntity) TableName() string {
	return "cultural_entities"
}
