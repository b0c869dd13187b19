package webapi

import (
	"errors"
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// getUser returns the principal the API-key middleware stored on the
// request context.
func getUser(ctx echo.Context) (*hgmodel.User, error) {
	user, ok := ctx.Get("User").(hgmodel.User)
	if !ok {
		return nil, echo.ErrUnauthorized
	}

	return &user, nil
}

// toHTTPError maps store/workflow errors onto status codes: state
// preconditions and bad input are 400, authorization failures 403, missing
// rows 404, anything else is a server error.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, stor.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrNotContributor):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrNotEditor):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.ErrNotFound
	default:
		return err
	}
}
