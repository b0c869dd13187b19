package stor

import (
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type GormRevisionStor struct {
	db *gorm.DB
}

func NewGormRevisionStor(db *gorm.DB) *GormRevisionStor {
	return &GormRevisionStor{db: db}
}

func (s *GormRevisionStor) GetRevisionByUUID(revisionUUID string) (*hgmodel.Revision, error) {
	var revision hgmodel.Revision
	if err := s.db.Preload("CreatedBy").Where("uuid = ?", revisionUUID).First(&revision).Error; err != nil {
		return nil, err
	}

	return &revision, nil
}

// GetLatestRevision returns the revision with the highest revision number
// for the entity, or nil if the entity has no revisions. Revision number is
// the sole ordering key.
func (s *GormRevisionStor) GetLatestRevision(entityID int) (*hgmodel.Revision, error) {
	return latestRevision(s.db, entityID)
}

func (s *GormRevisionStor) GetRevisionsForEntity(entityID int) ([]hgmodel.Revision, error) {
	var revisions []hgmodel.Revision

	err := s.db.Where("entity_id = ?", entityID).
		Preload("CreatedBy").
		Order("revision_number desc").
		Find(&revisions).Error

	return revisions, err
}
