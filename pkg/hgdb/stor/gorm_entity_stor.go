package stor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormEntityStor struct {
	db *gorm.DB
}

func NewGormEntityStor(db *gorm.DB) *GormEntityStor {
	return &GormEntityStor{db: db}
}

// CreateEntityWithRevision creates a new draft entity along with its first
// revision. The entity and revision 1 are written in the same transaction so
// an entity never exists without its initial snapshot.
func (s *GormEntityStor) CreateEntityWithRevision(entity *hgmodel.CulturalEntity, data json.RawMessage) (*hgmodel.CulturalEntity, error) {
	var (
		err          error
		revisionUUID string
	)

	if entity.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if revisionUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	entity.Status = hgmodel.StatusDraft

	slugOfName := slug.Make(entity.Name)
	entity.Slug = slugOfName
	slugNext := 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
	CreateLoop:
		for {
			err = tx.Create(entity).Error
			switch {
			case err == nil:
				break CreateLoop
			case errors.Is(err, gorm.ErrDuplicatedKey):
				// Assume a collision on the slug. Add an incrementing
				// integer to the slug name and try again.
				entity.Slug = fmt.Sprintf("%s-%d", slugOfName, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}

		firstRevision := &hgmodel.Revision{
			UUID:           revisionUUID,
			EntityID:       entity.ID,
			Data:           data,
			RevisionNumber: 1,
			CreatedByID:    entity.ContributorID,
		}

		return tx.Create(firstRevision).Error
	})

	if err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *GormEntityStor) GetEntityByID(entityID int) (*hgmodel.CulturalEntity, error) {
	var entity hgmodel.CulturalEntity
	if err := s.db.First(&entity, entityID).Error; err != nil {
		return nil, err
	}

	return &entity, nil
}

func (s *GormEntityStor) GetEntityByUUID(entityUUID string) (*hgmodel.CulturalEntity, error) {
	var entity hgmodel.CulturalEntity
	if err := s.db.Where("uuid = ?", entityUUID).First(&entity).Error; err != nil {
		return nil, err
	}

	return &entity, nil
}

func (s *GormEntityStor) GetEntityBySlug(entitySlug string) (*hgmodel.CulturalEntity, error) {
	var entity hgmodel.CulturalEntity
	if err := s.db.Where("slug = ?", entitySlug).First(&entity).Error; err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetEntityDetailByUUID loads an entity with its contributor, current
// revision, full revision history (newest revision number first) and its
// activity trail (newest first).
func (s *GormEntityStor) GetEntityDetailByUUID(entityUUID string) (*hgmodel.CulturalEntity, error) {
	var entity hgmodel.CulturalEntity

	err := s.db.Preload("Contributor").
		Preload("CurrentRevision").
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("revision_number desc")
		}).
		Preload("Revisions.CreatedBy").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		Preload("Activities.User").
		Where("uuid = ?", entityUUID).
		First(&entity).Error

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

func (s *GormEntityStor) ListEntitiesByStatus(status hgmodel.EntityStatus) ([]hgmodel.CulturalEntity, error) {
	var entities []hgmodel.CulturalEntity

	err := s.db.Where("status = ?", status).
		Preload("Contributor").
		Preload("CurrentRevision").
		Order("created_at desc").
		Find(&entities).Error

	return entities, err
}

func (s *GormEntityStor) ListEntitiesForContributor(contributorID int) ([]hgmodel.CulturalEntity, error) {
	var entities []hgmodel.CulturalEntity

	err := s.db.Where("contributor_id = ?", contributorID).
		Preload("CurrentRevision").
		Order("created_at desc").
		Find(&entities).Error

	return entities, err
}

// GetContributionQueue returns entities awaiting moderation (pending_review
// or pending_revision), most recently created first. Each entity is
// annotated with its activity count and latest revision so a moderator can
// review it without further lookups.
func (s *GormEntityStor) GetContributionQueue() ([]hgmodel.CulturalEntity, error) {
	var entities []hgmodel.CulturalEntity

	queueStatuses := []hgmodel.EntityStatus{hgmodel.StatusPendingReview, hgmodel.StatusPendingRevision}

	err := s.db.Where("status IN ?", queueStatuses).
		Preload("Contributor").
		Preload("CurrentRevision").
		Order("created_at desc").
		Find(&entities).Error

	if err != nil {
		return nil, err
	}

	for i := range entities {
		entity := &entities[i]

		if err := s.db.Model(&hgmodel.Activity{}).Where("entity_id = ?", entity.ID).Count(&entity.ActivityCount).Error; err != nil {
			return nil, err
		}

		latest, err := latestRevision(s.db, entity.ID)
		if err != nil {
			return nil, err
		}

		entity.LatestRevision = latest
	}

	return entities, nil
}

// SubmitEntityForReview moves a draft entity to pending_review and records
// the "submitted" activity. The status check runs inside the transaction as
// a guarded update, so a concurrent transition cannot slip a non-draft
// entity through.
func (s *GormEntityStor) SubmitEntityForReview(entity *hgmodel.CulturalEntity, caller *hgmodel.User) (*hgmodel.CulturalEntity, error) {
	activityUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&hgmodel.CulturalEntity{}).
			Where("id = ?", entity.ID).
			Where("status = ?", hgmodel.StatusDraft).
			Update("status", hgmodel.StatusPendingReview)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return pkgerrors.Wrap(ErrInvalidTransition, "only draft entities can be submitted for review")
		}

		activity := &hgmodel.Activity{
			UUID:         activityUUID,
			EntityID:     entity.ID,
			UserID:       caller.ID,
			ActivityType: hgmodel.ActivitySubmitted,
		}

		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetEntityByID(entity.ID)
}

// AcceptEntity publishes the entity: its current_revision pointer is set to
// the latest revision (by revision number) if one exists, status becomes
// accepted, and the "accepted" activity is recorded. The transaction opens
// by locking the entity row, so a create_revision racing with accept either
// commits its new revision before the latest-revision read here or waits
// until this transaction commits, never in between.
func (s *GormEntityStor) AcceptEntity(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error) {
	activityUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		var current hgmodel.CulturalEntity
		if err := lockEntityRow(tx).First(&current, entity.ID).Error; err != nil {
			return err
		}

		latest, err := latestRevision(tx, entity.ID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status": hgmodel.StatusAccepted,
		}
		if latest != nil {
			updates["current_revision_id"] = latest.ID
		}

		err = tx.Model(&hgmodel.CulturalEntity{}).
			Where("id = ?", entity.ID).
			Updates(updates).Error
		if err != nil {
			return err
		}

		activity := &hgmodel.Activity{
			UUID:         activityUUID,
			EntityID:     entity.ID,
			UserID:       editor.ID,
			ActivityType: hgmodel.ActivityAccepted,
			Comment:      comment,
		}

		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetEntityByID(entity.ID)
}

// RejectEntity moves the entity to rejected, leaving current_revision
// untouched, and records the "rejected" activity.
func (s *GormEntityStor) RejectEntity(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error) {
	activityUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		err := tx.Model(&hgmodel.CulturalEntity{}).
			Where("id = ?", entity.ID).
			Update("status", hgmodel.StatusRejected).Error
		if err != nil {
			return err
		}

		activity := &hgmodel.Activity{
			UUID:         activityUUID,
			EntityID:     entity.ID,
			UserID:       editor.ID,
			ActivityType: hgmodel.ActivityRejected,
			Comment:      comment,
		}

		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetEntityByID(entity.ID)
}

// CreateEntityRevision appends a new revision with the next revision number
// for the entity, moves the entity to pending_revision, and records the
// "revised" activity. The number is computed as max+1 inside the
// transaction; the unique index on (entity_id, revision_number) turns a
// concurrent allocation into an insert failure, which WithTxRetry rolls
// back and re-runs with a freshly computed number.
func (s *GormEntityStor) CreateEntityRevision(entity *hgmodel.CulturalEntity, author *hgmodel.User, data json.RawMessage) (*hgmodel.Revision, error) {
	var (
		err          error
		revisionUUID string
		activityUUID string
		revision     *hgmodel.Revision
	)

	if revisionUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if activityUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		var current hgmodel.CulturalEntity
		if err := lockEntityRow(tx).First(&current, entity.ID).Error; err != nil {
			return err
		}

		// pending_revision is allowed so that a contributor can keep
		// appending revisions before a moderator gets to the entity.
		switch current.Status {
		case hgmodel.StatusDraft, hgmodel.StatusRejected, hgmodel.StatusPendingRevision:
		default:
			return pkgerrors.Wrap(ErrInvalidTransition, "revisions can only be created for draft or rejected entities")
		}

		err := tx.Model(&hgmodel.CulturalEntity{}).
			Where("id = ?", entity.ID).
			Update("status", hgmodel.StatusPendingRevision).Error
		if err != nil {
			return err
		}

		var maxRevisionNumber int
		err = tx.Model(&hgmodel.Revision{}).
			Where("entity_id = ?", entity.ID).
			Select("COALESCE(MAX(revision_number), 0)").
			Scan(&maxRevisionNumber).Error
		if err != nil {
			return err
		}

		revision = &hgmodel.Revision{
			UUID:           revisionUUID,
			EntityID:       entity.ID,
			Data:           data,
			RevisionNumber: maxRevisionNumber + 1,
			CreatedByID:    author.ID,
		}

		if err := tx.Create(revision).Error; err != nil {
			return err
		}

		activity := &hgmodel.Activity{
			UUID:         activityUUID,
			EntityID:     entity.ID,
			UserID:       author.ID,
			ActivityType: hgmodel.ActivityRevised,
		}

		return tx.Create(activity).Error
	})

	if err != nil {
		return nil, err
	}

	return revision, nil
}

// lockEntityRow adds FOR UPDATE to an entity read so transitions on the
// same entity serialize on its row. sqlite has no FOR UPDATE syntax; its
// single-writer locking already serializes the transactions, with busy
// aborts healed by WithTxRetry.
func lockEntityRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func latestRevision(db *gorm.DB, entityID int) (*hgmodel.Revision, error) {
	var revision hgmodel.Revision

	err := db.Where("entity_id = ?", entityID).
		Order("revision_number desc").
		First(&revision).Error

	switch {
	case err == nil:
		return &revision, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, err
	}
}
