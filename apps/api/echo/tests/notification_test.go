package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/college/apps/api/echo"
	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/tests"
)

func Test_notificationApi_recipients(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin)
	tchr := testutil.CreateUser(t, app.db, "ada", "blackboard", user.RoleTeacher)
	token := getToken(t, app, admin)

	jane := testutil.CreateStudent(t, app.db, "S001", "Jane", "CS", 1, "5550000001")
	john := testutil.CreateStudent(t, app.db, "S002", "John", "Math", 2, "5550000002")
	mary := testutil.CreateStudent(t, app.db, "S003", "Mary", "CS", 2, "5550000003")

	tests := []struct {
		name string
		path string
		want []int64
	}{
		{name: "all", path: "/v1/notifications/recipients?kind=all", want: []int64{jane.ID, john.ID, mary.ID}},
		{name: "department", path: "/v1/notifications/recipients?kind=department&department=CS", want: []int64{jane.ID, mary.ID}},
		{name: "year", path: "/v1/notifications/recipients?kind=year&year=2", want: []int64{john.ID, mary.ID}},
		{name: "ids", path: "/v1/notifications/recipients?kind=students&student_id=3&student_id=1", want: []int64{jane.ID, mary.ID}},
		{name: "single", path: "/v1/notifications/recipients?kind=student&student=2", want: []int64{john.ID}},
		{name: "unknown single", path: "/v1/notifications/recipients?kind=student&student=99", want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httpTest{path: tt.path, token: token}.run(t, app)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp RecipientsResponse
			unmarshal(t, rec, &resp)
			ids := make([]int64, 0, len(resp.Students))
			for _, s := range resp.Students {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}

	t.Run("invalid kind", func(t *testing.T) {
		rec := httpTest{path: "/v1/notifications/recipients?kind=everyone", token: token}.run(t, app)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("admin required", func(t *testing.T) {
		test := httpTest{
			path: "/v1/notifications/recipients?kind=all", token: getToken(t, app, tchr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}
		checkCodeAndData(t, test, test.run(t, app))
	})
}

func Test_notificationApi_send(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin)
	token := getToken(t, app, admin)

	testutil.CreateStudent(t, app.db, "S001", "Jane", "CS", 1, "5550000001")
	testutil.CreateStudent(t, app.db, "S002", "John", "CS", 2, "5550009999") // rejected by the channel
	testutil.CreateStudent(t, app.db, "S003", "Mary", "CS", 2, "+5550000003")
	testutil.CreateStudent(t, app.db, "S004", "Paul", "Math", 2, "5550000004")

	t.Run("sms keeps going after a failure", func(t *testing.T) {
		rec := httpTest{
			method: http.MethodPost, path: "/v1/notifications", token: token,
			body: []byte(`{"criterion":{"kind":"department","department":"CS"},"message":"Exams start Monday"}`),
		}.run(t, app)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report notification.Report
		unmarshal(t, rec, &report)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, notification.StatusPartial, report.Status)
		require.Len(t, report.Details, 3)
		assert.Equal(t, "+5550000001", report.Details[0].Recipient)
		assert.False(t, report.Details[1].Success)
		assert.Equal(t, "+5550000003", report.Details[2].Recipient)

		sent := app.sms.SentMessages()
		require.Len(t, sent, 2)
		assert.Equal(t, "Exams start Monday", sent[0].Body)
	})

	t.Run("email", func(t *testing.T) {
		rec := httpTest{
			method: http.MethodPost, path: "/v1/notifications", token: token,
			body: []byte(`{"criterion":{"kind":"department","department":"Math"},"message":"Lab closed","subject":"Lab","channel":"email"}`),
		}.run(t, app)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report notification.Report
		unmarshal(t, rec, &report)
		assert.Equal(t, notification.StatusSent, report.Status)
		require.Len(t, app.mail.SentMessages(), 1)
		assert.Equal(t, "s004@college.test", app.mail.SentMessages()[0].To[0].Address)
	})

	t.Run("no recipients", func(t *testing.T) {
		rec := httpTest{
			method: http.MethodPost, path: "/v1/notifications", token: token,
			body: []byte(`{"criterion":{"kind":"department","department":"Art"},"message":"Hello"}`),
		}.run(t, app)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank message", func(t *testing.T) {
		rec := httpTest{
			method: http.MethodPost, path: "/v1/notifications", token: token,
			body: []byte(`{"criterion":{"kind":"all"},"message":"   "}`),
		}.run(t, app)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
