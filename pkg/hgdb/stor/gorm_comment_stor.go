package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type GormCommentStor struct {
	db *gorm.DB
}

func NewGormCommentStor(db *gorm.DB) *GormCommentStor {
	return &GormCommentStor{db: db}
}

// AddCommentToEntity writes the comment row and its "commented" activity in
// the same transaction so the audit trail always matches the discussion.
func (s *GormCommentStor) AddCommentToEntity(entity *hgmodel.CulturalEntity, user *hgmodel.User, text string) (*hgmodel.Comment, error) {
	var (
		err          error
		comment      *hgmodel.Comment
		commentUUID  string
		activityUUID string
	)

	if commentUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if activityUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	comment = &hgmodel.Comment{
		UUID:     commentUUID,
		EntityID: entity.ID,
		UserID:   user.ID,
		Comment:  text,
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		activity := &hgmodel.Activity{
			UUID:         activityUUID,
			EntityID:     entity.ID,
			UserID:       user.ID,
			ActivityType: hgmodel.ActivityCommented,
			Comment:      text,
		}

		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *GormCommentStor) GetCommentsForEntity(entityID int) ([]hgmodel.Comment, error) {
	var comments []hgmodel.Comment

	err := s.db.Where("entity_id = ?", entityID).
		Preload("User").
		Order("created_at desc").
		Find(&comments).Error

	return comments, err
}
