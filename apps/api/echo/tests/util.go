package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/cartolearn/backend/apps/api/echo"
	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/org"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
	"github.com/cartolearn/backend/services/email"
	"github.com/cartolearn/backend/services/logger"
	"github.com/cartolearn/backend/storage/database/dummy"
	"github.com/cartolearn/backend/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func init() {
	// structured error payloads, not raw err.Error() strings
	core.Conf.Debug = false
	core.Conf.TestMode = true
}

type fixture struct {
	app     Server
	db      *dummydb.DB
	usrRepo user.Repository
	orgRepo org.Repository
	entRepo entitlement.Repository
	tracker *progress.Tracker
}

func setup(t *testing.T) *fixture {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	db.SetCatalog(testutil.SampleCatalog())

	usrRepo := dummydb.NewUserRepository(db)
	orgRepo := dummydb.NewOrgRepository(db)
	entRepo := dummydb.NewEntitlementRepository(db)
	cmpRepo := dummydb.NewCompletionRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	orgSvc := org.NewService(orgRepo)
	catSvc := catalog.NewService(dummydb.NewCatalogRepository(db))
	editor := entitlement.NewEditor(entRepo, orgSvc, catSvc)
	resolver := entitlement.NewResolver(entRepo, orgSvc, catSvc)
	tracker := progress.NewTracker(cmpRepo, usrSvc)
	aggregator := progress.NewAggregator(resolver, catSvc, cmpRepo, usrSvc)

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
			UserSvc:        usrSvc,
			OrgSvc:         orgSvc,
			CatalogSvc:     catSvc,
			Editor:         editor,
			Resolver:       resolver,
			Tracker:        tracker,
			Aggregator:     aggregator,
		},
	)

	return &fixture{
		app:     app,
		db:      db,
		usrRepo: usrRepo,
		orgRepo: orgRepo,
		entRepo: entRepo,
		tracker: tracker,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() > 0 {
			t.Errorf("failed! data = %v; want an empty body", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
