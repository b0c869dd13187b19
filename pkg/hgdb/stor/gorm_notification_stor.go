package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type GormNotificationStor struct {
	db *gorm.DB
}

func NewGormNotificationStor(db *gorm.DB) *GormNotificationStor {
	return &GormNotificationStor{db: db}
}

func (s *GormNotificationStor) CreateNotification(notification *hgmodel.Notification) (*hgmodel.Notification, error) {
	var err error
	if notification.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(notification).Error
	})

	if err != nil {
		return nil, err
	}

	return notification, nil
}

func (s *GormNotificationStor) GetNotificationsForUser(userID int) ([]hgmodel.Notification, error) {
	var notifications []hgmodel.Notification

	err := s.db.Where("user_id = ?", userID).
		Order("is_read asc").
		Order("created_at desc").
		Find(&notifications).Error

	return notifications, err
}

func (s *GormNotificationStor) MarkNotificationRead(notificationUUID string, userID int) (*hgmodel.Notification, error) {
	var notification hgmodel.Notification

	err := s.db.Where("uuid = ?", notificationUUID).
		Where("user_id = ?", userID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Model(&notification).Update("is_read", true).Error
	})

	if err != nil {
		return nil, err
	}

	return &notification, nil
}
