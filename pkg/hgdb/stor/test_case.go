package stor

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/heritage-graph/sattal/pkg/hgdb"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testCase struct {
	*testing.T
	db          *gorm.DB
	stors       *Stors
	contributor *hgmodel.User
	editor      *hgmodel.User
}

func newTestCase(t *testing.T) *testCase {
	// One in-memory database per test so tests can't see each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoErrorf(t, err, "db.DB failed: %s", err)
	sqlitedb.SetMaxOpenConns(1)

	err = hgdb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	tc := &testCase{
		T:     t,
		db:    db,
		stors: NewGormStors(db),
	}

	tc.populateDatabase()

	return tc
}

func (tc *testCase) populateDatabase() {
	var err error

	tc.contributor, err = tc.stors.UserStor.CreateUser(&hgmodel.User{Name: "Contributor One", Email: "contributor1@test.com"})
	require.NoErrorf(tc.T, err, "Failed creating contributor: %s", err)

	tc.editor, err = tc.stors.UserStor.CreateUser(&hgmodel.User{Name: "Editor One", Email: "editor1@test.com", IsEditor: true})
	require.NoErrorf(tc.T, err, "Failed creating editor: %s", err)
}

func (tc *testCase) createEntity(name string, data string) *hgmodel.CulturalEntity {
	entity, err := tc.stors.EntityStor.CreateEntityWithRevision(&hgmodel.CulturalEntity{
		Name:          name,
		Description:   "test entity",
		Category:      hgmodel.CategoryMonument,
		ContributorID: tc.contributor.ID,
	}, json.RawMessage(data))
	require.NoErrorf(tc.T, err, "Failed creating entity %s: %s", name, err)

	return entity
}
