package hgmodel

import "time"

type NotificationType string

const (
	NotificationSubmissionUpdate NotificationType = "submission_update"
	NotificationModeration       NotificationType = "moderation"
	NotificationComment          NotificationType = "comment"
	NotificationGeneral          NotificationType = "general"
)

// Notification is a best-effort message for a user produced by workflow
// events. Notifications are written outside the transition transaction and
// their failure never affects the transition.
type Notification struct {
	ID               int              `json:"id"`
	UUID             string           `json:"uuid"`
	UserID           int              `json:"user_id"`
	User             *User            `json:"-" gorm:"foreignKey:UserID;references:ID"`
	EntityID         *int             `json:"entity_id"`
	NotificationType NotificationType `json:"notification_type"`
	Message          string           `json:"message"`
	IsRead           bool             `json:"is_read"`
	CreatedAt        time.Time        `json:"created_at"`
}
