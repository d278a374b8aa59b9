package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/storage/database"
)

var scheduleRowSelect = []string{
	"cs.id AS class_schedule_id",
	"cs.day_of_week AS day_of_week",
	"cs.start_time AS start_time",
	"cs.end_time AS end_time",
	"c.id AS course_id",
	"c.course_code AS course_code",
	"c.title AS course_title",
	"c.department AS department",
	"t.id AS teacher_id",
	"t.name AS teacher_name",
	"cs.room_number AS room_number",
	"cs.semester AS semester",
}

type classScheduleRow struct {
	ID         int64  `db:"id"`
	CourseID   int64  `db:"course_id"`
	TeacherID  int64  `db:"teacher_id"`
	DayOfWeek  string `db:"day_of_week"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
	RoomNumber string `db:"room_number"`
	Semester   string `db:"semester"`
}

func (r classScheduleRow) unboil() schedule.ClassSchedule {
	return schedule.ClassSchedule(r)
}

type scheduleRow struct {
	ClassScheduleID int64  `db:"class_schedule_id"`
	DayOfWeek       string `db:"day_of_week"`
	StartTime       string `db:"start_time"`
	EndTime         string `db:"end_time"`
	CourseID        int64  `db:"course_id"`
	CourseCode      string `db:"course_code"`
	CourseTitle     string `db:"course_title"`
	Department      string `db:"department"`
	TeacherID       int64  `db:"teacher_id"`
	TeacherName     string `db:"teacher_name"`
	RoomNumber      string `db:"room_number"`
	Semester        string `db:"semester"`
}

func (r scheduleRow) unboil() schedule.Row {
	return schedule.Row(r)
}

type enrollmentRow struct {
	ID              int64  `db:"id"`
	StudentID       int64  `db:"student_id"`
	ClassScheduleID int64  `db:"class_schedule_id"`
	EnrollmentDate  dbTime `db:"enrollment_date"`
}

func (r enrollmentRow) unboil() schedule.Enrollment {
	return schedule.Enrollment{
		ID:              r.ID,
		StudentID:       r.StudentID,
		ClassScheduleID: r.ClassScheduleID,
		EnrollmentDate:  r.EnrollmentDate.Time,
	}
}

type ScheduleRepository struct {
	db core.DB
}

var _ schedule.Repository = (*ScheduleRepository)(nil)

func NewScheduleRepository(db core.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (repo *ScheduleRepository) CreateClassSchedule(ctx context.Context, cs schedule.ClassSchedule, exec ...core.DBExecutor) (schedule.ClassSchedule, error) {
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("class_schedules").
		Columns("course_id", "teacher_id", "day_of_week", "start_time", "end_time", "room_number", "semester").
		Values(cs.CourseID, cs.TeacherID, cs.DayOfWeek, cs.StartTime, cs.EndTime, cs.RoomNumber, cs.Semester),
	)
	if err != nil {
		return schedule.ClassSchedule{}, err
	}
	cs.ID = id
	return cs, nil
}

func (repo *ScheduleRepository) GetClassSchedule(ctx context.Context, id int64, exec ...core.DBExecutor) (schedule.ClassSchedule, error) {
	q := builder.
		Select("id", "course_id", "teacher_id", "day_of_week", "start_time", "end_time", "room_number", "semester").
		From("class_schedules").
		Where(sq.Eq{"id": id}).
		Limit(1)

	var row classScheduleRow
	if err := selectOne(ctx, getExec(repo.db, exec), &row, q); err != nil {
		if database.IsNoRows(err) {
			return schedule.ClassSchedule{}, schedule.ErrNotFound
		}
		return schedule.ClassSchedule{}, err
	}
	return row.unboil(), nil
}

func (repo *ScheduleRepository) QueryRows(ctx context.Context, filter schedule.RowFilter, exec ...core.DBExecutor) ([]schedule.Row, error) {
	q := builder.
		Select(scheduleRowSelect...).
		From("class_schedules cs").
		Join("courses c ON c.id = cs.course_id").
		Join("teachers t ON t.id = cs.teacher_id")

	if filter.StudentID != 0 {
		q = q.
			Join("class_enrollments ce ON ce.class_schedule_id = cs.id").
			Where(sq.Eq{"ce.student_id": filter.StudentID})
	}
	if filter.TeacherID != 0 {
		q = q.Where(sq.Eq{"cs.teacher_id": filter.TeacherID})
	}
	if filter.CourseID != 0 {
		q = q.Where(sq.Eq{"cs.course_id": filter.CourseID})
	}
	if filter.Department != "" {
		q = q.Where(sq.Eq{"c.department": filter.Department})
	}
	if filter.Semester != "" {
		q = q.Where(sq.Eq{"cs.semester": filter.Semester})
	}
	if filter.DayOfWeek != "" {
		q = q.Where(sq.Eq{"cs.day_of_week": filter.DayOfWeek})
	}

	var rows []scheduleRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting schedule rows")
	}
	out := make([]schedule.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.unboil())
	}
	return out, nil
}

func (repo *ScheduleRepository) CreateEnrollment(ctx context.Context, e schedule.Enrollment, exec ...core.DBExecutor) (schedule.Enrollment, error) {
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("class_enrollments").
		Columns("student_id", "class_schedule_id", "enrollment_date").
		Values(e.StudentID, e.ClassScheduleID, newDBDate(e.EnrollmentDate)),
	)
	if err != nil {
		if database.IsUniqueViolationOn(err, "class_schedule_id") {
			return schedule.Enrollment{}, schedule.ErrAlreadyEnrolled
		}
		return schedule.Enrollment{}, err
	}
	e.ID = id
	return e, nil
}

func (repo *ScheduleRepository) QueryEnrollments(ctx context.Context, filter schedule.EnrollmentFilter, exec ...core.DBExecutor) ([]schedule.Enrollment, error) {
	q := builder.
		Select("id", "student_id", "class_schedule_id", "enrollment_date").
		From("class_enrollments").
		OrderBy("id ASC")
	if filter.StudentID != 0 {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.ClassScheduleID != 0 {
		q = q.Where(sq.Eq{"class_schedule_id": filter.ClassScheduleID})
	}

	var rows []enrollmentRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	enrollments := make([]schedule.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrollments = append(enrollments, r.unboil())
	}
	return enrollments, nil
}
