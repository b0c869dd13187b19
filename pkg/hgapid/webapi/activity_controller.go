package webapi

import (
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/labstack/echo/v4"
)

type ActivityController struct {
	activityStor stor.ActivityStor
	entityStor   stor.EntityStor
}

func NewActivityController(activityStor stor.ActivityStor, entityStor stor.EntityStor) *ActivityController {
	return &ActivityController{activityStor: activityStor, entityStor: entityStor}
}

func (c *ActivityController) GetActivitiesForEntity(ctx echo.Context) error {
	entity, err := c.entityStor.GetEntityByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	activities, err := c.activityStor.GetActivitiesForEntity(entity.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, activities)
}

// GetMyActivities returns the caller's own workflow actions, newest first.
func (c *ActivityController) GetMyActivities(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	activities, err := c.activityStor.GetActivitiesForUser(user.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, activities)
}
