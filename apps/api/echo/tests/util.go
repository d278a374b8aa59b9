package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/college/apps/api/echo"
	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/dashboard"
	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/email"
	"github.com/trezcool/college/services/metrics"
	"github.com/trezcool/college/services/sms"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/storage/inmem"
	"github.com/trezcool/college/tests"
)

// failingPhone is rejected by the mocked SMS channel.
const failingPhone = "+5550009999"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	db   *sqlx.DB
	sms  *smssvc.ConsoleService
	mail *emailsvc.ConsoleService
}

func setup(t *testing.T) *testApp {
	conf := core.NewTestConfig()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	validate, translator := testutil.NewValidator()

	// set up services
	smsSvc := smssvc.NewConsoleServiceMock(failingPhone)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := nopLogger{}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), validate, conf)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), validate)
	teacherSvc := teacher.NewService(sqlxrepos.NewTeacherRepository(db), validate)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db), validate)

	// set up server
	app := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		DB:              db,
		UserSvc:         usrSvc,
		StudentSvc:      studentSvc,
		TeacherSvc:      teacherSvc,
		CourseSvc:       courseSvc,
		ScheduleSvc:     schedule.NewService(sqlxrepos.NewScheduleRepository(db), courseSvc, teacherSvc, studentSvc, validate),
		NotificationSvc: notification.NewService(studentSvc, smsSvc, mailSvc, validate, metrics.NotificationRecorder{}, logger),
		DashboardSvc:    dashboard.NewService(sqlxrepos.NewDashboardRepository(db)),
		Blacklist:       inmem.NewTokenBlacklist(),
		Validate:        validate,
		Translator:      translator,
	})
	return &testApp{Server: app, db: db, sms: smsSvc, mail: mailSvc}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

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

func (tt httpTest) run(t *testing.T, app http.Handler) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
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

func getToken(t *testing.T, app *testApp, usr user.User) string {
	auth := app.Authenticator()
	token, err := auth.GenerateToken(auth.UserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
