package stor

import (
	"encoding/json"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type EntityStor interface {
	CreateEntityWithRevision(entity *hgmodel.CulturalEntity, data json.RawMessage) (*hgmodel.CulturalEntity, error)
	GetEntityByID(entityID int) (*hgmodel.CulturalEntity, error)
	GetEntityByUUID(entityUUID string) (*hgmodel.CulturalEntity, error)
	GetEntityBySlug(slug string) (*hgmodel.CulturalEntity, error)
	GetEntityDetailByUUID(entityUUID string) (*hgmodel.CulturalEntity, error)
	ListEntitiesByStatus(status hgmodel.EntityStatus) ([]hgmodel.CulturalEntity, error)
	ListEntitiesForContributor(contributorID int) ([]hgmodel.CulturalEntity, error)
	GetContributionQueue() ([]hgmodel.CulturalEntity, error)
	SubmitEntityForReview(entity *hgmodel.CulturalEntity, caller *hgmodel.User) (*hgmodel.CulturalEntity, error)
	AcceptEntity(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error)
	RejectEntity(entity *hgmodel.CulturalEntity, editor *hgmodel.User, comment string) (*hgmodel.CulturalEntity, error)
	CreateEntityRevision(entity *hgmodel.CulturalEntity, author *hgmodel.User, data json.RawMessage) (*hgmodel.Revision, error)
}

type RevisionStor interface {
	GetRevisionByUUID(revisionUUID string) (*hgmodel.Revision, error)
	GetLatestRevision(entityID int) (*hgmodel.Revision, error)
	GetRevisionsForEntity(entityID int) ([]hgmodel.Revision, error)
}

type ActivityStor interface {
	RecordActivity(activity *hgmodel.Activity) (*hgmodel.Activity, error)
	GetActivitiesForEntity(entityID int) ([]hgmodel.Activity, error)
	GetActivitiesForUser(userID int) ([]hgmodel.Activity, error)
	CountActivitiesForEntity(entityID int) (int64, error)
}

type UserStor interface {
	CreateUser(user *hgmodel.User) (*hgmodel.User, error)
	GetUserBySlug(slug string) (*hgmodel.User, error)
	GetUserByEmail(email string) (*hgmodel.User, error)
	GetUserByAPIToken(apitoken string) (*hgmodel.User, error)
	VerifyUserPassword(user *hgmodel.User, password string) bool
}

type CommentStor interface {
	AddCommentToEntity(entity *hgmodel.CulturalEntity, user *hgmodel.User, text string) (*hgmodel.Comment, error)
	GetCommentsForEntity(entityID int) ([]hgmodel.Comment, error)
}

type NotificationStor interface {
	CreateNotification(notification *hgmodel.Notification) (*hgmodel.Notification, error)
	GetNotificationsForUser(userID int) ([]hgmodel.Notification, error)
	MarkNotificationRead(notificationUUID string, userID int) (*hgmodel.Notification, error)
}

type UserStatsStor interface {
	GetStatsForUser(userID int) (*hgmodel.UserStats, error)
	RecomputeStatsForUser(userID int) (*hgmodel.UserStats, error)
}

type Stors struct {
	EntityStor       EntityStor
	RevisionStor     RevisionStor
	ActivityStor     ActivityStor
	UserStor         UserStor
	CommentStor      CommentStor
	NotificationStor NotificationStor
	UserStatsStor    UserStatsStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		EntityStor:       NewGormEntityStor(db),
		RevisionStor:     NewGormRevisionStor(db),
		ActivityStor:     NewGormActivityStor(db),
		UserStor:         NewGormUserStor(db),
		CommentStor:      NewGormCommentStor(db),
		NotificationStor: NewGormNotificationStor(db),
		UserStatsStor:    NewGormUserStatsStor(db),
	}
}
