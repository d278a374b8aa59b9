package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/storage/database"
	"github.com/trezcool/college/storage/database/sqlxrepos"
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// NewValidator returns a validator with every custom rule registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB opens a migrated in-memory database that is closed when t ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database.SetMigrationLogging(false)

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateUser(t *testing.T, db *sqlx.DB, uname, pwd string, role user.Role) user.User {
	t.Helper()
	usr := user.User{
		Username:  uname,
		Role:      role,
		IsActive:  true,
		CreatedAt: core.NowUTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd, user.HasherSHA256); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := sqlxrepos.NewUserRepository(db).CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, db *sqlx.DB, no, name, dept string, year int, phone string, userID ...int64) student.Student {
	t.Helper()
	s := student.Student{
		StudentNo:  no,
		Name:       name,
		Department: dept,
		Year:       year,
		Email:      strings.ToLower(no) + "@college.test",
		Phone:      phone,
	}
	if len(userID) > 0 {
		s.UserID = null.Int64From(userID[0])
	}
	s, err := sqlxrepos.NewStudentRepository(db).CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateTeacher(t *testing.T, db *sqlx.DB, no, name, dept string, userID ...int64) teacher.Teacher {
	t.Helper()
	tc := teacher.Teacher{
		StaffNo:    no,
		Name:       name,
		Department: dept,
		Email:      strings.ToLower(no) + "@college.test",
		Phone:      "5550001111",
	}
	if len(userID) > 0 {
		tc.UserID = null.Int64From(userID[0])
	}
	tc, err := sqlxrepos.NewTeacherRepository(db).CreateTeacher(context.Background(), tc)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tc
}

func CreateCourse(t *testing.T, db *sqlx.DB, code, title, dept string) course.Course {
	t.Helper()
	c, err := sqlxrepos.NewCourseRepository(db).CreateCourse(context.Background(), course.Course{
		Code:        code,
		Title:       title,
		Department:  dept,
		CreditHours: 3,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateClass(t *testing.T, db *sqlx.DB, courseID, teacherID int64, day, start, end, room string) schedule.ClassSchedule {
	t.Helper()
	cs, err := sqlxrepos.NewScheduleRepository(db).CreateClassSchedule(context.Background(), schedule.ClassSchedule{
		CourseID:   courseID,
		TeacherID:  teacherID,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
		RoomNumber: room,
		Semester:   "Fall 2024",
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cs
}

func Enroll(t *testing.T, db *sqlx.DB, studentID, classID int64) schedule.Enrollment {
	t.Helper()
	e, err := sqlxrepos.NewScheduleRepository(db).CreateEnrollment(context.Background(), schedule.Enrollment{
		StudentID:       studentID,
		ClassScheduleID: classID,
		EnrollmentDate:  core.NowUTC(),
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return e
}
