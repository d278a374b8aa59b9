package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/tests"
)

func TestScheduleRepository_Enrollments(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewScheduleRepository(db)

	jane := testutil.CreateStudent(t, db, "S001", "Jane", "CS", 1, "5550000001")
	ada := testutil.CreateTeacher(t, db, "T001", "Ada", "CS")
	cs := testutil.CreateCourse(t, db, "CS101", "Intro", "CS")
	class := testutil.CreateClass(t, db, cs.ID, ada.ID, "Monday", "09:00", "10:00", "R1")

	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	e, err := repo.CreateEnrollment(ctx, schedule.Enrollment{StudentID: jane.ID, ClassScheduleID: class.ID, EnrollmentDate: day})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)

	_, err = repo.CreateEnrollment(ctx, schedule.Enrollment{StudentID: jane.ID, ClassScheduleID: class.ID, EnrollmentDate: day})
	assert.ErrorIs(t, err, schedule.ErrAlreadyEnrolled)

	got, err := repo.QueryEnrollments(ctx, schedule.EnrollmentFilter{StudentID: jane.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, day.Equal(got[0].EnrollmentDate))

	rows, err := repo.QueryRows(ctx, schedule.RowFilter{StudentID: jane.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schedule.Row{
		ClassScheduleID: class.ID,
		DayOfWeek:       "Monday",
		StartTime:       "09:00",
		EndTime:         "10:00",
		CourseID:        cs.ID,
		CourseCode:      "CS101",
		CourseTitle:     "Intro",
		Department:      "CS",
		TeacherID:       ada.ID,
		TeacherName:     "Ada",
		RoomNumber:      "R1",
		Semester:        "Fall 2024",
	}, rows[0])

	_, err = repo.GetClassSchedule(ctx, class.ID+1)
	assert.ErrorIs(t, err, schedule.ErrNotFound)
}
