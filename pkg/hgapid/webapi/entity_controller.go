package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
)

type EntityController struct {
	engine     *workflow.Engine
	entityStor stor.EntityStor
}

func NewEntityController(engine *workflow.Engine, entityStor stor.EntityStor) *EntityController {
	return &EntityController{engine: engine, entityStor: entityStor}
}

// CreateEntity creates a new draft entity plus its first revision. The
// authenticated caller becomes the contributor.
func (c *EntityController) CreateEntity(ctx echo.Context) error {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		FormData    json.RawMessage `json:"form_data"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	entity, err := c.engine.CreateEntity(user, req.Name, req.Description, hgmodel.EntityCategory(req.Category), req.FormData)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, entity)
}

func (c *EntityController) GetEntity(ctx echo.Context) error {
	entity, err := c.entityStor.GetEntityDetailByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

func (c *EntityController) GetEntityBySlug(ctx echo.Context) error {
	entity, err := c.entityStor.GetEntityBySlug(ctx.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// ListEntities returns accepted entities. Editors may pass ?status= to see
// any status.
func (c *EntityController) ListEntities(ctx echo.Context) error {
	status := hgmodel.StatusAccepted

	if requested := ctx.QueryParam("status"); requested != "" {
		user, err := getUser(ctx)
		if err == nil && user.IsEditor && hgmodel.EntityStatus(requested).IsValid() {
			status = hgmodel.EntityStatus(requested)
		}
	}

	entities, err := c.entityStor.ListEntitiesByStatus(status)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entities)
}

func (c *EntityController) MyContributions(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	entities, err := c.entityStor.ListEntitiesForContributor(user.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, entities)
}

func (c *EntityController) SubmitForReview(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	entity, err := c.entityStor.GetEntityByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	updated, err := c.engine.SubmitForReview(entity, user)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, updated)
}

func (c *EntityController) CreateRevision(ctx echo.Context) error {
	var req struct {
		Data json.RawMessage `json:"data"`
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

	revision, err := c.engine.CreateRevision(entity, user, req.Data)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, revision)
}
