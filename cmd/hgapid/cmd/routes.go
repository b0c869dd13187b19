package cmd

import (
	"github.com/heritage-graph/sattal/pkg/hgapid/webapi"
	"github.com/heritage-graph/sattal/pkg/hgapid/webapi/apimiddleware"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	stors       *stor.Stors
	engine      *workflow.Engine
	apikeyCache *apimiddleware.APIKeyCache
}

// publicReadRoutes are readable without authentication; everything else
// under /api requires an apikey.
var publicReadRoutes = map[string]bool{
	"/api/entities":                  true,
	"/api/entities/:uuid":            true,
	"/api/entities/by-slug/:slug":    true,
	"/api/entities/:uuid/comments":   true,
	"/api/entities/:uuid/activities": true,
	"/api/contribution-queue":        true,
	"/api/users/:slug/stats":         true,
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")

	g.Use(apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
		Skipper: func(c echo.Context) bool {
			if c.Path() == "/api/register" {
				return true
			}

			if c.Request().Method != "GET" || !publicReadRoutes[c.Path()] {
				return false
			}

			// Authenticate public reads anyway when a key is supplied, so
			// editors keep their role on routes like the status filter.
			return c.Request().Header.Get("apikey") == "" && c.QueryParam("apikey") == ""
		},
		Keyname:         "apikey",
		GetUserByAPIKey: opts.apikeyCache.GetUserByAPIKey,
	}))

	entityController := webapi.NewEntityController(opts.engine, opts.stors.EntityStor)
	g.POST("/entities", entityController.CreateEntity)
	g.GET("/entities", entityController.ListEntities)
	g.GET("/entities/mine", entityController.MyContributions)
	g.GET("/entities/:uuid", entityController.GetEntity)
	g.GET("/entities/by-slug/:slug", entityController.GetEntityBySlug)
	g.POST("/entities/:uuid/submit_for_review", entityController.SubmitForReview)
	g.POST("/entities/:uuid/revisions", entityController.CreateRevision)

	queueController := webapi.NewContributionQueueController(opts.engine, opts.stors.EntityStor)
	g.GET("/contribution-queue", queueController.GetQueue)
	g.POST("/contribution-queue/:uuid/moderate", queueController.Moderate)

	activityController := webapi.NewActivityController(opts.stors.ActivityStor, opts.stors.EntityStor)
	g.GET("/entities/:uuid/activities", activityController.GetActivitiesForEntity)
	g.GET("/activities", activityController.GetMyActivities)

	commentController := webapi.NewCommentController(opts.stors.CommentStor, opts.stors.EntityStor)
	g.GET("/entities/:uuid/comments", commentController.GetComments)
	g.POST("/entities/:uuid/comments", commentController.AddComment)

	notificationController := webapi.NewNotificationController(opts.stors.NotificationStor)
	g.GET("/notifications", notificationController.GetMyNotifications)
	g.POST("/notifications/:uuid/read", notificationController.MarkRead)

	userController := webapi.NewUserController(opts.stors.UserStor, opts.stors.UserStatsStor)
	g.POST("/register", userController.Register)
	g.GET("/me", userController.GetMe)
	g.GET("/users/:slug/stats", userController.GetUserStats)
}
