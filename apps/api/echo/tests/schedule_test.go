package tests

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	. "github.com/trezcool/college/apps/api/echo"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/export"
	"github.com/trezcool/college/tests"
)

func slots(rows []schedule.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CourseCode+"@"+r.DayOfWeek+" "+r.StartTime)
	}
	return out
}

func Test_courseApi(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin)
	stud := testutil.CreateUser(t, app.db, "jane", "notebook", user.RoleStudent)
	adminToken := getToken(t, app, admin)
	cs := testutil.CreateCourse(t, app.db, "CS101", "Intro", "CS")

	tests := []httpTest{
		{name: "anyone can list", path: "/v1/courses", token: getToken(t, app, stud), wantData: marchallList(t, cs)},
		{
			name: "students cannot add", method: http.MethodPost, path: "/v1/courses", token: getToken(t, app, stud),
			body:     []byte(`{"course_code":"MA201","title":"Calculus","department":"Math","credit_hours":4}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "duplicate code", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body:     []byte(`{"course_code":"cs101","title":"Another","department":"CS","credit_hours":3}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"course_code": "Course code already exists"}),
		},
		{
			name: "success", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body:     []byte(`{"course_code":"MA201","title":"Calculus","department":"Math","credit_hours":4}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.run(t, app)
			checkCodeAndData(t, tt, rec)
			if rec.Code == http.StatusCreated {
				var c course.Course
				unmarshal(t, rec, &c)
				assert.Equal(t, "MA201", c.Code)
				assert.False(t, c.Description.Valid)
			}
		})
	}
}

type timetable struct {
	admin, teacher, student, orphan user.User
	classes                         []schedule.ClassSchedule
}

// newTimetable seeds two teachers, one enrolled student and four classes.
func newTimetable(t *testing.T, app *testApp) timetable {
	tt := timetable{
		admin:   testutil.CreateUser(t, app.db, "admin", "admin123", user.RoleAdmin),
		teacher: testutil.CreateUser(t, app.db, "ada", "blackboard", user.RoleTeacher),
		student: testutil.CreateUser(t, app.db, "jane", "notebook", user.RoleStudent),
		orphan:  testutil.CreateUser(t, app.db, "orphan", "notebook", user.RoleStudent),
	}
	ada := testutil.CreateTeacher(t, app.db, "T001", "Ada", "CS", tt.teacher.ID)
	bob := testutil.CreateTeacher(t, app.db, "T002", "Bob", "Math")
	jane := testutil.CreateStudent(t, app.db, "S001", "Jane", "CS", 1, "5550000001", tt.student.ID)

	cs := testutil.CreateCourse(t, app.db, "CS101", "Intro", "CS")
	ma := testutil.CreateCourse(t, app.db, "MA201", "Calculus", "Math")

	tt.classes = []schedule.ClassSchedule{
		testutil.CreateClass(t, app.db, cs.ID, ada.ID, "Wednesday", "10:00", "11:00", "R1"),
		testutil.CreateClass(t, app.db, ma.ID, bob.ID, "Monday", "14:00", "15:00", "R2"),
		testutil.CreateClass(t, app.db, cs.ID, ada.ID, "Monday", "08:00", "09:00", "R1"),
		testutil.CreateClass(t, app.db, ma.ID, bob.ID, "Friday", "09:00", "10:00", "R2"),
	}
	testutil.Enroll(t, app.db, jane.ID, tt.classes[0].ID)
	testutil.Enroll(t, app.db, jane.ID, tt.classes[1].ID)
	return tt
}

func Test_scheduleApi_schedule(t *testing.T) {
	app := setup(t)
	tt := newTimetable(t, app)

	tests := []struct {
		name string
		usr  user.User
		path string
		want []string
	}{
		{name: "admin sees everything", usr: tt.admin, path: "/v1/schedule",
			want: []string{"CS101@Monday 08:00", "MA201@Monday 14:00", "CS101@Wednesday 10:00", "MA201@Friday 09:00"}},
		{name: "admin filters", usr: tt.admin, path: "/v1/schedule?department=Math",
			want: []string{"MA201@Monday 14:00", "MA201@Friday 09:00"}},
		{name: "teacher sees own classes", usr: tt.teacher, path: "/v1/schedule",
			want: []string{"CS101@Monday 08:00", "CS101@Wednesday 10:00"}},
		{name: "teacher cannot widen scope", usr: tt.teacher, path: "/v1/schedule?teacher_id=2",
			want: []string{"CS101@Monday 08:00", "CS101@Wednesday 10:00"}},
		{name: "student sees enrolled classes", usr: tt.student, path: "/v1/schedule",
			want: []string{"MA201@Monday 14:00", "CS101@Wednesday 10:00"}},
		{name: "day filter", usr: tt.student, path: "/v1/schedule?day=monday",
			want: []string{"MA201@Monday 14:00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httpTest{path: tc.path, token: getToken(t, app, tc.usr)}.run(t, app)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var rows []schedule.Row
			unmarshal(t, rec, &rows)
			assert.Equal(t, tc.want, slots(rows))
		})
	}

	t.Run("missing profile", func(t *testing.T) {
		test := httpTest{
			path: "/v1/schedule", token: getToken(t, app, tt.orphan),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Record not found. Please contact an administrator."}),
		}
		checkCodeAndData(t, test, test.run(t, app))
	})

	t.Run("grouped by day", func(t *testing.T) {
		rec := httpTest{path: "/v1/schedule?group=day", token: getToken(t, app, tt.admin)}.run(t, app)
		require.Equal(t, http.StatusOK, rec.Code)
		var days []schedule.DaySchedule
		unmarshal(t, rec, &days)
		require.Len(t, days, 3)
		assert.Equal(t, "Monday", days[0].Day)
		assert.Len(t, days[0].Rows, 2)
		assert.Equal(t, "Friday", days[2].Day)
	})
}

func Test_scheduleApi_export(t *testing.T) {
	app := setup(t)
	tt := newTimetable(t, app)

	rec := httpTest{path: "/v1/schedule/export", token: getToken(t, app, tt.student)}.run(t, app)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exportsvc.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schedule.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 enrolled classes
	assert.Equal(t, "Monday", rows[1][0])
	assert.Equal(t, "MA201", rows[1][3])
}

func Test_scheduleApi_addClass(t *testing.T) {
	app := setup(t)
	tt := newTimetable(t, app)
	token := getToken(t, app, tt.admin)

	tests := []httpTest{
		{
			name: "admin required", token: getToken(t, app, tt.teacher),
			body:     []byte(`{"course_id":1,"teacher_id":1,"day_of_week":"Tuesday","start_time":"10:00","end_time":"11:00","room_number":"R1","semester":"Fall 2024"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "end before start", token: token,
			body:     []byte(`{"course_id":1,"teacher_id":1,"day_of_week":"Tuesday","start_time":"11:00","end_time":"10:00","room_number":"R1","semester":"Fall 2024"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"end_time": "end time must be after start time"}),
		},
		{
			name: "unknown course", token: token,
			body:     []byte(`{"course_id":99,"teacher_id":1,"day_of_week":"Tuesday","start_time":"10:00","end_time":"11:00","room_number":"R1","semester":"Fall 2024"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"course_id": course.ErrNotFound.Error()}),
		},
		{
			// same room and slot as an existing class: overlaps are not rejected
			name: "overlap accepted", token: token,
			body:     []byte(`{"course_id":2,"teacher_id":1,"day_of_week":"wednesday","start_time":"10:00","end_time":"11:00","room_number":"R1","semester":"Fall 2024"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.method = http.MethodPost
			test.path = "/v1/classes"
			rec := test.run(t, app)
			checkCodeAndData(t, test, rec)
			if rec.Code == http.StatusCreated {
				var cs schedule.ClassSchedule
				unmarshal(t, rec, &cs)
				assert.Equal(t, "Wednesday", cs.DayOfWeek)
			}
		})
	}

	rec := httpTest{path: "/v1/classes?day=Wednesday", token: getToken(t, app, tt.student)}.run(t, app)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []schedule.Row
	unmarshal(t, rec, &rows)
	assert.Len(t, rows, 2)
}

func Test_scheduleApi_enroll(t *testing.T) {
	app := setup(t)
	tt := newTimetable(t, app)
	studToken := getToken(t, app, tt.student)
	adminToken := getToken(t, app, tt.admin)

	tests := []httpTest{
		{
			name: "teachers cannot enroll", token: getToken(t, app, tt.teacher), body: []byte(`{"class_schedule_id":3}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "student enrolls self", token: studToken, body: []byte(`{"class_schedule_id":3,"student_id":42}`), wantCode: http.StatusCreated},
		{
			name: "duplicate", token: studToken, body: []byte(`{"class_schedule_id":3}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"class_schedule_id": "Student is already enrolled in this class"}),
		},
		{
			name: "unknown class", token: studToken, body: []byte(`{"class_schedule_id":99}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"class_schedule_id": schedule.ErrNotFound.Error()}),
		},
		{
			name: "admin must name the student", token: adminToken, body: []byte(`{"class_schedule_id":4}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"student_id": "this field is required"}),
		},
		{name: "admin enrolls a student", token: adminToken, body: []byte(`{"class_schedule_id":4,"student_id":1}`), wantCode: http.StatusCreated},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.method = http.MethodPost
			test.path = "/v1/enrollments"
			rec := test.run(t, app)
			checkCodeAndData(t, test, rec)
			if rec.Code == http.StatusCreated {
				var resp EnrollmentResponse
				unmarshal(t, rec, &resp)
				assert.Equal(t, int64(1), resp.StudentID)
				assert.Equal(t, "Successfully enrolled in the class", resp.Message)
			}
		})
	}

	rec := httpTest{path: "/v1/enrollments?student_id=1", token: adminToken}.run(t, app)
	require.Equal(t, http.StatusOK, rec.Code)
	var enrollments []schedule.Enrollment
	unmarshal(t, rec, &enrollments)
	assert.Len(t, enrollments, 4)
}
