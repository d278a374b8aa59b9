package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/college/core"
)

type ClassSchedule struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	TeacherID  int64  `json:"teacher_id"`
	DayOfWeek  string `json:"day_of_week"`
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	RoomNumber string `json:"room_number"`
	Semester   string `json:"semester"`
}

// NewClassSchedule contains information needed to create a new ClassSchedule.
type NewClassSchedule struct {
	CourseID   int64  `json:"course_id" validate:"required,min=1"`
	TeacherID  int64  `json:"teacher_id" validate:"required,min=1"`
	DayOfWeek  string `json:"day_of_week" validate:"required,weekday"`
	StartTime  string `json:"start_time" validate:"required,clock"`
	EndTime    string `json:"end_time" validate:"required,clock"`
	RoomNumber string `json:"room_number" validate:"required,notblank,max=20"`
	Semester   string `json:"semester" validate:"required,notblank,max=20"`
}

func (ncs *NewClassSchedule) Validate(validate *validator.Validate) error {
	ncs.DayOfWeek = core.CleanString(ncs.DayOfWeek)
	if i := core.WeekdayIndex(ncs.DayOfWeek); i < len(core.Weekdays) {
		ncs.DayOfWeek = core.Weekdays[i]
	}
	ncs.StartTime = core.CleanString(ncs.StartTime)
	ncs.EndTime = core.CleanString(ncs.EndTime)
	ncs.RoomNumber = core.CleanString(ncs.RoomNumber)
	ncs.Semester = core.CleanString(ncs.Semester)

	if err := validate.Struct(ncs); err != nil {
		return err
	}
	// zero-padded HH:MM compares lexicographically
	if ncs.EndTime <= ncs.StartTime {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "end time must be after start time"})
	}
	return nil
}

type Enrollment struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"student_id"`
	ClassScheduleID int64     `json:"class_schedule_id"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
}

// NewEnrollment names the class to join. StudentID is ignored for student actors.
type NewEnrollment struct {
	StudentID       int64 `json:"student_id"`
	ClassScheduleID int64 `json:"class_schedule_id" validate:"required,min=1"`
}

type EnrollmentFilter struct {
	StudentID       int64
	ClassScheduleID int64
}

// Row is a class schedule joined with its course and teacher, as shown in timetables.
type Row struct {
	ClassScheduleID int64  `json:"class_schedule_id"`
	DayOfWeek       string `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	CourseID        int64  `json:"course_id"`
	CourseCode      string `json:"course_code"`
	CourseTitle     string `json:"course_title"`
	Department      string `json:"department"`
	TeacherID       int64  `json:"teacher_id"`
	TeacherName     string `json:"teacher_name"`
	RoomNumber      string `json:"room_number"`
	Semester        string `json:"semester"`
}

// RowFilter restricts schedule rows. Zero values are ignored.
type RowFilter struct {
	StudentID  int64  `query:"student_id"` // classes the student is enrolled in
	TeacherID  int64  `query:"teacher_id"`
	CourseID   int64  `query:"course_id"`
	Department string `query:"department"` // course department
	Semester   string `query:"semester"`
	DayOfWeek  string `query:"day"`
}

func (rf *RowFilter) Clean() {
	rf.Department = core.CleanString(rf.Department)
	rf.Semester = core.CleanString(rf.Semester)
	rf.DayOfWeek = core.CleanString(rf.DayOfWeek)
	if i := core.WeekdayIndex(rf.DayOfWeek); i < len(core.Weekdays) {
		rf.DayOfWeek = core.Weekdays[i]
	}
}

// DaySchedule holds the rows of one weekday.
type DaySchedule struct {
	Day  string `json:"day"`
	Rows []Row  `json:"rows"`
}
