package webapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/heritage-graph/sattal/pkg/hgdb"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
	"github.com/heritage-graph/sattal/pkg/workflow"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testCase struct {
	*testing.T
	e           *echo.Echo
	stors       *stor.Stors
	engine      *workflow.Engine
	contributor *hgmodel.User
	editor      *hgmodel.User
}

func newTestCase(t *testing.T) *testCase {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoErrorf(t, err, "gorm.Open failed: %s", err)

	sqlitedb, err := db.DB()
	require.NoError(t, err)
	sqlitedb.SetMaxOpenConns(1)

	err = hgdb.RunMigrations(db)
	require.NoErrorf(t, err, "Migration failed with: %s", err)

	tc := &testCase{
		T:     t,
		e:     echo.New(),
		stors: stor.NewGormStors(db),
	}

	tc.engine = workflow.NewEngine(tc.stors.EntityStor)

	tc.contributor, err = tc.stors.UserStor.CreateUser(&hgmodel.User{Name: "Contributor One", Email: "contributor1@test.com"})
	require.NoErrorf(t, err, "Failed creating contributor: %s", err)

	tc.editor, err = tc.stors.UserStor.CreateUser(&hgmodel.User{Name: "Editor One", Email: "editor1@test.com", IsEditor: true})
	require.NoErrorf(t, err, "Failed creating editor: %s", err)

	return tc
}

// newContext builds an echo context for calling a handler directly. A
// non-nil user is stored on the context the way the API-key middleware
// would store it.
func (tc *testCase) newContext(method, target string, body interface{}, user *hgmodel.User) (echo.Context, *httptest.ResponseRecorder) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoErrorf(tc.T, err, "json.Marshal failed: %s", err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := tc.e.NewContext(req, rec)

	if user != nil {
		c.Set("User", *user)
	}

	return c, rec
}

func (tc *testCase) createEntity(name string, data string) *hgmodel.CulturalEntity {
	entity, err := tc.engine.CreateEntity(tc.contributor, name, "", hgmodel.CategoryMonument, json.RawMessage(data))
	require.NoErrorf(tc.T, err, "Failed creating entity: %s", err)
	return entity
}
