package webapi

import (
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/labstack/echo/v4"
)

type CommentController struct {
	commentStor stor.CommentStor
	entityStor  stor.EntityStor
}

func NewCommentController(commentStor stor.CommentStor, entityStor stor.EntityStor) *CommentController {
	return &CommentController{commentStor: commentStor, entityStor: entityStor}
}

func (c *CommentController) AddComment(ctx echo.Context) error {
	var req struct {
		Comment string `json:"comment"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Comment == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "comment is required")
	}

	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	entity, err := c.entityStor.GetEntityByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	comment, err := c.commentStor.AddCommentToEntity(entity, user, req.Comment)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, comment)
}

func (c *CommentController) GetComments(ctx echo.Context) error {
	entity, err := c.entityStor.GetEntityByUUID(ctx.Param("uuid"))
	if err != nil {
		return toHTTPError(err)
	}

	comments, err := c.commentStor.GetCommentsForEntity(entity.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, comments)
}
