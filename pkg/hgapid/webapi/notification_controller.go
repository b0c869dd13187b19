package webapi

import (
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	notificationStor stor.NotificationStor
}

func NewNotificationController(notificationStor stor.NotificationStor) *NotificationController {
	return &NotificationController{notificationStor: notificationStor}
}

func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	notifications, err := c.notificationStor.GetNotificationsForUser(user.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, notifications)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	notification, err := c.notificationStor.MarkNotificationRead(ctx.Param("uuid"), user.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, notification)
}
