package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type GormActivityStor struct {
	db *gorm.DB
}

func NewGormActivityStor(db *gorm.DB) *GormActivityStor {
	return &GormActivityStor{db: db}
}

func (s *GormActivityStor) RecordActivity(activity *hgmodel.Activity) (*hgmodel.Activity, error) {
	var err error
	if activity.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *GormActivityStor) GetActivitiesForEntity(entityID int) ([]hgmodel.Activity, error) {
	var activities []hgmodel.Activity

	err := s.db.Where("entity_id = ?", entityID).
		Preload("User").
		Order("created_at desc").
		Find(&activities).Error

	return activities, err
}

func (s *GormActivityStor) GetActivitiesForUser(userID int) ([]hgmodel.Activity, error) {
	var activities []hgmodel.Activity

	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&activities).Error

	return activities, err
}

func (s *GormActivityStor) CountActivitiesForEntity(entityID int) (int64, error) {
	var count int64
	err := s.db.Model(&hgmodel.Activity{}).Where("entity_id = ?", entityID).Count(&count).Error
	return count, err
}
