package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core/dashboard"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/tests"
)

func Test_dashboardApi(t *testing.T) {
	app := setup(t)
	tt := newTimetable(t, app)

	rec := httpTest{path: "/v1/dashboard", token: getToken(t, app, tt.teacher)}.run(t, app)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats dashboard.Stats
	unmarshal(t, rec, &stats)
	assert.Equal(t, 1, stats.Students)
	assert.Equal(t, 2, stats.Teachers)
	assert.Equal(t, 2, stats.Courses)
	assert.Equal(t, 4, stats.Classes)
	assert.Equal(t, 2, stats.Enrollments)
	assert.Equal(t, []dashboard.Count{{Label: "CS", Total: 1}, {Label: "Math", Total: 1}}, stats.TeachersByDepartment)

	test := httpTest{path: "/v1/dashboard", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
	checkCodeAndData(t, test, test.run(t, app))
}

func Test_healthApi(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin)

	tests := []httpTest{
		{name: "liveness", path: "/health", wantData: []byte(`{"status":"ok"}`)},
		{
			name: "readiness", path: "/health/ready",
			wantData: []byte(`{"status":"ok","build":"test","dependencies":{"database":{"status":"ok"}}}`),
		},
		{name: "trailing slash", path: "/health/", wantData: []byte(`{"status":"ok"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, tt.run(t, app))
		})
	}

	t.Run("metrics", func(t *testing.T) {
		httpTest{path: "/health"}.run(t, app)
		rec := httpTest{path: "/metrics"}.run(t, app)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "college_http_requests_total"))
	})
}
