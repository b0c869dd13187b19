package webapi

import (
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
)

type ContributionQueueController struct {
	engine     *workflow.Engine
	entityStor stor.EntityStor
}

func NewContributionQueueController(engine *workflow.Engine, entityStor stor.EntityStor) *ContributionQueueController {
	return &ContributionQueueController{engine: engine, entityStor: entityStor}
}

// GetQueue lists entities awaiting moderation, newest first, annotated with
// contributor, current and latest revision, and activity count.
func (c *ContributionQueueController) GetQueue(ctx echo.Context) error {
	entities, err := c.entityStor.GetContributionQueue()
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entities)
}

// Moderate accepts or rejects a queued entity. Editor role required.
func (c *ContributionQueueController) Moderate(ctx echo.Context) error {
	var req struct {
		Action  string `json:"action"`
		Comment string `json:"comment"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	entity, err := c.entityStor.GetEntityByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	switch req.Action {
	case "accept":
		if _, err := c.engine.Accept(entity, user, req.Comment); err != nil {
			return toHTTPError(err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"message": "entity accepted"})
	case "reject":
		if _, err := c.engine.Reject(entity, user, req.Comment); err != nil {
			return toHTTPError(err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"message": "entity rejected"})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "action must be accept or reject")
	}
}
