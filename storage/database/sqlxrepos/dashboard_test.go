package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core/dashboard"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/tests"
)

func TestDashboardRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	svc := dashboard.NewService(sqlxrepos.NewDashboardRepository(db))

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Students)
	assert.Empty(t, empty.StudentsByDepartment)

	jane := testutil.CreateStudent(t, db, "S001", "Jane", "CS", 1, "5550000001")
	testutil.CreateStudent(t, db, "S002", "John", "Math", 1, "5550000002")
	testutil.CreateStudent(t, db, "S003", "Amy", "CS", 3, "5550000003")
	ada := testutil.CreateTeacher(t, db, "T001", "Ada", "CS")
	cs := testutil.CreateCourse(t, db, "CS101", "Intro", "CS")
	class := testutil.CreateClass(t, db, cs.ID, ada.ID, "Monday", "09:00", "10:00", "R1")
	testutil.Enroll(t, db, jane.ID, class.ID)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Students)
	assert.Equal(t, 1, stats.Teachers)
	assert.Equal(t, 1, stats.Courses)
	assert.Equal(t, 1, stats.Classes)
	assert.Equal(t, 1, stats.Enrollments)
	assert.Equal(t, []dashboard.Count{{Label: "CS", Total: 2}, {Label: "Math", Total: 1}}, stats.StudentsByDepartment)
	assert.Equal(t, []dashboard.Count{{Label: "1", Total: 2}, {Label: "3", Total: 1}}, stats.StudentsByYear)
	assert.Equal(t, []dashboard.Count{{Label: "CS", Total: 1}}, stats.TeachersByDepartment)
}
