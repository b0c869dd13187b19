package webapi

import (
	"net/http"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/labstack/echo/v4"
)

type UserController struct {
	userStor      stor.UserStor
	userStatsStor stor.UserStatsStor
}

func NewUserController(userStor stor.UserStor, userStatsStor stor.UserStatsStor) *UserController {
	return &UserController{userStor: userStor, userStatsStor: userStatsStor}
}

// Register creates a new user and returns it along with the generated API
// token. This is the only response that ever carries the token.
func (c *UserController) Register(ctx echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and email are required")
	}

	user, err := c.userStor.CreateUser(&hgmodel.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return toHTTPError(err)
	}

	resp := struct {
		*hgmodel.User
		ApiToken string `json:"api_token"`
	}{User: user, ApiToken: user.ApiToken}

	return ctx.JSON(http.StatusCreated, resp)
}

func (c *UserController) GetMe(ctx echo.Context) error {
	user, err := getUser(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, user)
}

func (c *UserController) GetUserStats(ctx echo.Context) error {
	user, err := c.userStor.GetUserBySlug(ctx.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	stats, err := c.userStatsStor.GetStatsForUser(user.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, stats)
}
