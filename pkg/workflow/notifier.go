package workflow

import (
	"fmt"

	"github.com/apex/log"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
)

// Notifier turns workflow events into notification rows for the affected
// contributor. Failures are logged and dropped.
type Notifier struct {
	notificationStor stor.NotificationStor
}

func NewNotifier(notificationStor stor.NotificationStor) *Notifier {
	return &Notifier{notificationStor: notificationStor}
}

func (n *Notifier) HandleEvent(event Event) {
	var (
		message          string
		notificationType hgmodel.NotificationType
	)

	switch event.Type {
	case EventSubmitted:
		message = fmt.Sprintf("%q was submitted for review", event.Entity.Name)
		notificationType = hgmodel.NotificationSubmissionUpdate
	case EventAccepted:
		message = fmt.Sprintf("%q was accepted", event.Entity.Name)
		notificationType = hgmodel.NotificationModeration
	case EventRejected:
		message = fmt.Sprintf("%q was rejected", event.Entity.Name)
		if event.Comment != "" {
			message = fmt.Sprintf("%s: %s", message, event.Comment)
		}
		notificationType = hgmodel.NotificationModeration
	case EventRevised:
		message = fmt.Sprintf("a new revision of %q was submitted", event.Entity.Name)
		notificationType = hgmodel.NotificationSubmissionUpdate
	default:
		return
	}

	entityID := event.Entity.ID
	notification := &hgmodel.Notification{
		UserID:           event.Entity.ContributorID,
		EntityID:         &entityID,
		NotificationType: notificationType,
		Message:          message,
	}

	if _, err := n.notificationStor.CreateNotification(notification); err != nil {
		log.Errorf("failed creating notification for entity %s: %s", event.Entity.UUID, err)
	}
}
