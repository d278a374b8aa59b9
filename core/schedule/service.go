package schedule

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("class schedule not found")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this class")
	ErrProfileNotFound = errors.New("record not found, please contact an administrator")

	alreadyEnrolledText = "Student is already enrolled in this class"
)

type (
	Repository interface {
		CreateClassSchedule(ctx context.Context, cs ClassSchedule, exec ...core.DBExecutor) (ClassSchedule, error)
		GetClassSchedule(ctx context.Context, id int64, exec ...core.DBExecutor) (ClassSchedule, error)
		// QueryRows applies AND operation on available RowFilter fields. Rows come back unordered.
		QueryRows(ctx context.Context, filter RowFilter, exec ...core.DBExecutor) ([]Row, error)
		// CreateEnrollment returns ErrAlreadyEnrolled when the (student, class) pair exists.
		CreateEnrollment(ctx context.Context, e Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter EnrollmentFilter, exec ...core.DBExecutor) ([]Enrollment, error)
	}

	CourseGetter interface {
		GetByID(ctx context.Context, id int64) (course.Course, error)
	}

	TeacherGetter interface {
		GetByID(ctx context.Context, id int64) (teacher.Teacher, error)
		GetByUserID(ctx context.Context, userID int64) (teacher.Teacher, error)
	}

	StudentGetter interface {
		GetByID(ctx context.Context, id int64) (student.Student, error)
		GetByUserID(ctx context.Context, userID int64) (student.Student, error)
	}

	Service struct {
		repo     Repository
		courses  CourseGetter
		teachers TeacherGetter
		students StudentGetter
		validate *validator.Validate
		scopes   map[user.Role]scopeFunc
		nowFunc  func() time.Time
	}
)

func NewService(
	repo Repository,
	courses CourseGetter,
	teachers TeacherGetter,
	students StudentGetter,
	validate *validator.Validate,
) *Service {
	svc := &Service{
		repo:     repo,
		courses:  courses,
		teachers: teachers,
		students: students,
		validate: validate,
		nowFunc:  time.Now,
	}
	svc.scopes = svc.viewers()
	return svc
}

// ScheduleFor returns the timetable visible to actor, Monday first then by start time.
// requested is honoured as-is for admins; other roles only keep its semester and day.
func (svc *Service) ScheduleFor(ctx context.Context, actor user.Actor, requested RowFilter) ([]Row, error) {
	scope, ok := svc.scopes[actor.Role]
	if !ok {
		return nil, core.ErrForbidden
	}
	requested.Clean()
	filter, err := scope(ctx, actor, requested)
	if err != nil {
		return nil, err
	}

	rows, err := svc.repo.QueryRows(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying schedule rows")
	}
	SortRows(rows)
	return rows, nil
}

// ListClasses returns every class matching filter, in timetable order.
func (svc *Service) ListClasses(ctx context.Context, filter RowFilter) ([]Row, error) {
	filter.Clean()
	rows, err := svc.repo.QueryRows(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	SortRows(rows)
	return rows, nil
}

func (svc *Service) GetClassSchedule(ctx context.Context, id int64) (ClassSchedule, error) {
	return svc.repo.GetClassSchedule(ctx, id)
}

// AddClassSchedule inserts a class once its course and teacher resolve.
// Room and teacher overlaps are not checked.
func (svc *Service) AddClassSchedule(ctx context.Context, ncs NewClassSchedule) (ClassSchedule, error) {
	if err := ncs.Validate(svc.validate); err != nil {
		return ClassSchedule{}, err
	}

	if _, err := svc.courses.GetByID(ctx, ncs.CourseID); err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return ClassSchedule{}, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return ClassSchedule{}, errors.Wrap(err, "getting course")
	}
	if _, err := svc.teachers.GetByID(ctx, ncs.TeacherID); err != nil {
		if errors.Is(err, teacher.ErrNotFound) {
			return ClassSchedule{}, core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: err.Error()})
		}
		return ClassSchedule{}, errors.Wrap(err, "getting teacher")
	}

	cs, err := svc.repo.CreateClassSchedule(ctx, ClassSchedule{
		CourseID:   ncs.CourseID,
		TeacherID:  ncs.TeacherID,
		DayOfWeek:  ncs.DayOfWeek,
		StartTime:  ncs.StartTime,
		EndTime:    ncs.EndTime,
		RoomNumber: ncs.RoomNumber,
		Semester:   ncs.Semester,
	})
	return cs, errors.Wrap(err, "creating class schedule")
}

// Enroll adds a student to a class. Students always enroll themselves; admins name the student.
func (svc *Service) Enroll(ctx context.Context, actor user.Actor, ne NewEnrollment) (Enrollment, error) {
	switch {
	case actor.IsStudent():
		s, err := svc.students.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, student.ErrNotFound) {
				return Enrollment{}, ErrProfileNotFound
			}
			return Enrollment{}, errors.Wrap(err, "getting student profile")
		}
		ne.StudentID = s.ID
	case actor.IsAdmin():
		if ne.StudentID <= 0 {
			return Enrollment{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
		}
		if _, err := svc.students.GetByID(ctx, ne.StudentID); err != nil {
			if errors.Is(err, student.ErrNotFound) {
				return Enrollment{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
			}
			return Enrollment{}, errors.Wrap(err, "getting student")
		}
	default:
		return Enrollment{}, core.ErrForbidden
	}

	if err := svc.validate.Struct(ne); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetClassSchedule(ctx, ne.ClassScheduleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Enrollment{}, core.NewValidationError(err, core.FieldError{Field: "class_schedule_id", Error: err.Error()})
		}
		return Enrollment{}, errors.Wrap(err, "getting class schedule")
	}

	now := svc.nowFunc()
	e, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:       ne.StudentID,
		ClassScheduleID: ne.ClassScheduleID,
		EnrollmentDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled, core.FieldError{Field: "class_schedule_id", Error: alreadyEnrolledText})
		}
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return e, nil
}

func (svc *Service) ListEnrollments(ctx context.Context, filter EnrollmentFilter) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}
