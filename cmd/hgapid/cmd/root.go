package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/heritage-graph/sattal/pkg/config"
	"github.com/heritage-graph/sattal/pkg/hgapid/webapi/apimiddleware"
	"github.com/heritage-graph/sattal/pkg/hgdb"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hgapid",
	Short: "Run the heritage-graph API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		c := config.MustLoadFromDotenv()
		db := hgdb.MustConnectToDB()

		if err := hgdb.RunMigrations(db); err != nil {
			log.Fatalf("Unable to run migrations: %s", err)
		}

		stors := stor.NewGormStors(db)

		sink := workflow.NewAsyncSink(
			workflow.NewNotifier(stors.NotificationStor),
			workflow.NewStatsRefresher(stors.UserStatsStor),
		)
		defer sink.Stop()

		engine := workflow.NewEngine(stors.EntityStor,
			workflow.WithEventSink(sink),
			workflow.WithCollaborativeRevisions(c.GetBoolKeyWithDefault("HG_COLLABORATIVE_REVISIONS", false)))

		apikeyCache := apimiddleware.NewAPIKeyCache(stors.UserStor)

		setupRoutes(e, RouteOpts{
			stors:       stors,
			engine:      engine,
			apikeyCache: apikeyCache,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("HGAPID_PORT", "1372")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
