package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/college/apps/api/echo"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/tests"
)

func Test_studentApi_access(t *testing.T) {
	app := setup(t)
	stud := testutil.CreateUser(t, app.db, "jane", "notebook", user.RoleStudent)
	tchr := testutil.CreateUser(t, app.db, "ada", "blackboard", user.RoleTeacher)
	jane := testutil.CreateStudent(t, app.db, "S001", "Jane", "CS", 1, "5550000001")

	tests := []httpTest{
		{name: "auth required", path: "/v1/students", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "students cannot list", path: "/v1/students", token: getToken(t, app, stud),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "teachers can list", path: "/v1/students", token: getToken(t, app, tchr), wantData: marchallList(t, jane)},
		{
			name: "teachers cannot create", method: http.MethodPost, path: "/v1/students", token: getToken(t, app, tchr),
			body:     []byte(`{"student_no":"S002"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "teachers cannot update", method: http.MethodPut, path: "/v1/students/1", token: getToken(t, app, tchr),
			body:     []byte(`{"name":"Janet"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, tt.run(t, app))
		})
	}
}

func Test_studentApi_crud(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin)
	token := getToken(t, app, admin)
	existing := testutil.CreateStudent(t, app.db, "S001", "Jane", "CS", 1, "5550000001")

	// create
	tests := []httpTest{
		{
			name: "invalid", body: []byte(`{"student_no":"S 2","name":" ","department":"CS","year":9,"email":"nope","phone":"abc"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate number", body: []byte(`{"student_no":"S001","name":"John","department":"CS","year":2,"email":"john@college.test","phone":"5550000002"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"student_no": "Student ID already exists"}),
		},
		{
			name: "success", body: []byte(`{"student_no":"S002","name":" John ","department":"Math","year":2,"email":"John@College.test","phone":"5550000002"}`),
			wantCode: http.StatusCreated,
		},
	}
	var created student.Student
	for _, tt := range tests {
		t.Run("create "+tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/students"
			tt.token = token
			rec := tt.run(t, app)
			checkCodeAndData(t, tt, rec)
			if rec.Code == http.StatusBadRequest && tt.wantData == nil {
				var fields map[string]string
				unmarshal(t, rec, &fields)
				assert.Subset(t, keys(fields), []string{"student_no", "name", "year", "email", "phone"})
			}
			if rec.Code == http.StatusCreated {
				unmarshal(t, rec, &created)
			}
		})
	}
	require.NotZero(t, created.ID)
	assert.Equal(t, "John", created.Name)
	assert.Equal(t, "john@college.test", created.Email)

	// retrieve
	checkCodeAndData(t, httpTest{wantData: marchallObj(t, existing)}, httpTest{path: "/v1/students/1", token: token}.run(t, app))
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		httpTest{path: "/v1/students/999", token: token}.run(t, app))
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		httpTest{path: "/v1/students/abc", token: token}.run(t, app))

	// update
	rec := httpTest{method: http.MethodPut, path: "/v1/students/1", token: token, body: []byte(`{"year":2,"phone":"5550000011"}`)}.run(t, app)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated student.Student
	unmarshal(t, rec, &updated)
	assert.Equal(t, 2, updated.Year)
	assert.Equal(t, "5550000011", updated.Phone)
	assert.Equal(t, existing.Name, updated.Name)

	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		httpTest{method: http.MethodPut, path: "/v1/students/999", token: token, body: []byte(`{"year":2}`)}.run(t, app))

	// query
	rec = httpTest{path: "/v1/students?department=Math", token: token}.run(t, app)
	var students []student.Student
	unmarshal(t, rec, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "S002", students[0].StudentNo)

	// options
	checkCodeAndData(t,
		httpTest{wantData: marchallObj(t, StudentOptions{Departments: []string{"CS", "Math"}, Years: []int{2}})},
		httpTest{path: "/v1/students/options", token: token}.run(t, app),
	)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
